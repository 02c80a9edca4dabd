// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Telemetry TelemetryConfig
	App       AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
	BaseURL      string
}

// DatabaseConfig holds database connection settings. URL wins over the
// discrete fields when set.
type DatabaseConfig struct {
	Driver   string
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	Secret        string
	TTL           time.Duration
	Store         string // db or redis
	SecureCookies bool
}

// RedisConfig is only used when Session.Store is "redis".
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NATSConfig holds the event bus connection. An empty URL disables publishing.
type NATSConfig struct {
	URL         string
	ConnTimeout time.Duration
}

// TelemetryConfig holds tracing settings. An empty collector URL disables export.
type TelemetryConfig struct {
	CollectorURL string
	ServiceName  string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	Seed       bool
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// MigrateURL returns the connection string in URL format, as golang-migrate expects.
func (d DatabaseConfig) MigrateURL() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables and an optional .env
// file. It uses sensible defaults for local development.
func Load() *Config {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	v.SetDefault("BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "talenthub")
	v.SetDefault("DB_PASSWORD", "talenthub")
	v.SetDefault("DB_NAME", "talenthub")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_DEBUG", false)

	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_STORE", "db")
	v.SetDefault("SECURE_COOKIES", false)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_CONN_TIMEOUT", "5s")

	v.SetDefault("OTEL_COLLECTOR_URL", "")
	v.SetDefault("OTEL_SERVICE_NAME", "ai-talent-hub")


	v.SetDefault("DEV", true)
	v.SetDefault("MIGRATIONS", false)
	v.SetDefault("DB_SEED", false)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetInt("SERVER_IDLE_TIMEOUT"),
			BaseURL:      v.GetString("BASE_URL"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Debug:    v.GetBool("DB_DEBUG"),
		},
		Session: SessionConfig{
			Secret:        v.GetString("SESSION_SECRET"),
			TTL:           v.GetDuration("SESSION_TTL"),
			Store:         v.GetString("SESSION_STORE"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NATS: NATSConfig{
			URL:         v.GetString("NATS_URL"),
			ConnTimeout: v.GetDuration("NATS_CONN_TIMEOUT"),
		},
		Telemetry: TelemetryConfig{
			CollectorURL: v.GetString("OTEL_COLLECTOR_URL"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
		},
		App: AppConfig{
			Dev:        v.GetBool("DEV"),
			Migrations: v.GetBool("MIGRATIONS"),
			Seed:       v.GetBool("DB_SEED"),
		},
	}
}
