package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/config"
	"github.com/diewo77/ai-talent-hub/internal/db"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/policy"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"github.com/diewo77/ai-talent-hub/internal/sessions"
	"github.com/diewo77/ai-talent-hub/internal/telemetry"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()
	cfg := config.Load()

	if *migrateOnlyFlag || *seedOnlyFlag {
		if err := runOnce(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newDatabase,
			newSessionStore,
			newSessionManager,
			newPublisher,
			newServiceDeps,
			policy.NewRouterConfig,
			NewApp,
			newServer,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(startTracing),
		fx.Invoke(func(*http.Server) {}),
	)
	app.Run()
}

// runOnce handles the -migrate-only and -seed-only flags outside the
// application graph.
func runOnce(cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	if *migrateOnlyFlag {
		if err := migrateDatabase(cfg, conn); err != nil {
			return err
		}
		logger.Info("migrations completed")
	}
	if *seedOnlyFlag {
		if err := db.Seed(conn); err != nil {
			return err
		}
		logger.Info("seeding completed")
	}
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newDatabase connects, migrates and optionally seeds the database.
func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	conn, err := db.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if cfg.App.Migrations || cfg.Database.Driver == db.DriverSQLite {
		if err := migrateDatabase(cfg, conn); err != nil {
			return nil, err
		}
		logger.Info("migrations completed")
	}
	if cfg.App.Seed {
		if err := db.Seed(conn); err != nil {
			return nil, err
		}
		logger.Info("demo data seeded", zap.String("admin", db.DemoAdminEmail))
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return conn, nil
}

// migrateDatabase applies the versioned SQL migrations on Postgres and
// AutoMigrate elsewhere.
func migrateDatabase(cfg *config.Config, conn *gorm.DB) error {
	if cfg.Database.Driver == db.DriverSQLite {
		return db.Migrate(conn)
	}
	return db.MigrateSQL(cfg.Database.MigrateURL())
}

func newSessionStore(lc fx.Lifecycle, cfg *config.Config, conn *gorm.DB, logger *zap.Logger) (auth.Store, error) {
	if cfg.Session.Store == "redis" {
		store := sessions.NewRedisStore(sessions.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := store.Ping(ctx); err != nil {
					return err
				}
				logger.Info("redis session store ready", zap.String("addr", cfg.Redis.Addr))
				return nil
			},
			OnStop: func(context.Context) error { return store.Close() },
		})
		return store, nil
	}

	store := sessions.NewGormStore(conn)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purging expired sessions failed", zap.Error(err))
				return nil
			}
			logger.Info("expired sessions purged", zap.Int64("count", n))
			return nil
		},
	})
	return store, nil
}

func newSessionManager(store auth.Store, cfg *config.Config) *auth.Manager {
	return auth.NewManager(store, auth.Options{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.SecureCookies,
	})
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	pub, err := events.NewPublisher(cfg.NATS.URL, cfg.NATS.ConnTimeout, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pub.Close()
			return nil
		},
	})
	return pub, nil
}

func newServiceDeps(conn *gorm.DB, logger *zap.Logger, pub events.Publisher) services.Deps {
	return services.Deps{DB: conn, Logger: logger, Events: pub, Now: time.Now}
}

// startTracing exports spans when a collector is configured.
func startTracing(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) {
	if cfg.Telemetry.CollectorURL == "" {
		logger.Info("tracing disabled: OTEL_COLLECTOR_URL not set")
		return
	}
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.CollectorURL)
			if err != nil {
				return err
			}
			logger.Info("tracing enabled", zap.String("collector", cfg.Telemetry.CollectorURL))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func newServer(lc fx.Lifecycle, cfg *config.Config, app *App, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withRecover(logger, withLogging(logger, app)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("server starting", zap.String("addr", srv.Addr), zap.Bool("dev", cfg.App.Dev))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("server stopping")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
