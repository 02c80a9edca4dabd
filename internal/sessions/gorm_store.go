// Package sessions implements auth.Store on top of the database or Redis.
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"gorm.io/gorm"
)

// GormStore keeps sessions in the sessions table.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Create(ctx context.Context, sess auth.Session) error {
	row := models.Session{
		Token:     sess.Token,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt,
		IPAddress: sess.IPAddress,
		UserAgent: sess.UserAgent,
	}
	if !sess.CreatedAt.IsZero() {
		row.CreatedAt = sess.CreatedAt
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func (s *GormStore) Get(ctx context.Context, token string) (auth.Session, error) {
	var row models.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return auth.Session{}, err
	}
	return auth.Session{
		Token:     row.Token,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
	}, nil
}

func (s *GormStore) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Session{}).Where("token = ?", token).Update("expires_at", expiresAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return auth.ErrSessionNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// PurgeExpired removes sessions past their expiry and returns how many were deleted.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
