package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:sessions_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGormStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewGormStore(setupDB(t))
	now := time.Now().UTC().Truncate(time.Second)

	sess := auth.Session{Token: "tok", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour), IPAddress: "127.0.0.1"}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.Get(ctx, "tok")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "u1" || got.IPAddress != "127.0.0.1" {
		t.Fatalf("unexpected session %+v", got)
	}

	later := now.Add(2 * time.Hour)
	if err := store.Touch(ctx, "tok", later); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, _ = store.Get(ctx, "tok")
	if !got.ExpiresAt.Equal(later) {
		t.Fatalf("expected renewed expiry %v, got %v", later, got.ExpiresAt)
	}

	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "tok"); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Touch(ctx, "tok", later); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("touch on missing session: %v", err)
	}
}

func TestGormStorePurgeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewGormStore(setupDB(t))
	now := time.Now()
	store.now = func() time.Time { return now }

	_ = store.Create(ctx, auth.Session{Token: "old", UserID: "u1", ExpiresAt: now.Add(-time.Minute)})
	_ = store.Create(ctx, auth.Session{Token: "new", UserID: "u1", ExpiresAt: now.Add(time.Hour)})

	n, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged session, got %d", n)
	}
	if _, err := store.Get(ctx, "new"); err != nil {
		t.Fatalf("live session should survive purge: %v", err)
	}
}

func TestManagerWithGormStore(t *testing.T) {
	store := NewGormStore(setupDB(t))
	m := auth.NewManager(store, auth.Options{Secret: "s"})
	if m == nil {
		t.Fatal("expected manager")
	}
	var _ auth.Store = store
	var _ auth.Store = (*RedisStore)(nil)
}
