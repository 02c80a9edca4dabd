package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Session.TTL != 30*24*time.Hour {
		t.Fatalf("expected 30 day session ttl, got %v", cfg.Session.TTL)
	}
	if cfg.Session.Store != "db" {
		t.Fatalf("expected db session store, got %q", cfg.Session.Store)
	}
	if got := cfg.Database.DSN(); got != "host=localhost port=5432 user=talenthub password=talenthub dbname=talenthub sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/hub?sslmode=disable")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Database.DSN() != "postgres://u:p@db:5432/hub?sslmode=disable" {
		t.Fatalf("DATABASE_URL should win, got %q", cfg.Database.DSN())
	}
	if cfg.Database.MigrateURL() != cfg.Database.URL {
		t.Fatalf("migrate url should reuse DATABASE_URL")
	}
	if cfg.Session.TTL != 2*time.Hour || cfg.Session.Store != "redis" {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if !cfg.App.Migrations {
		t.Fatalf("expected migrations enabled")
	}
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Fatalf("unexpected nats url %q", cfg.NATS.URL)
	}
}
