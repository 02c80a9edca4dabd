package policy

import (
	"context"

	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"gorm.io/gorm"
)

// IdentityResolver loads the current role and company of a user. It never
// caches: a role or affiliation change applies on the next request.
type IdentityResolver struct {
	db *gorm.DB
}

func NewIdentityResolver(db *gorm.DB) *IdentityResolver {
	return &IdentityResolver{db: db}
}

// Resolve returns nil, nil when the user no longer exists or is inactive.
func (r *IdentityResolver) Resolve(ctx context.Context, userID string) (*access.Identity, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Select("id", "role", "company_id", "is_active").
		First(&u, "id = ?", userID).Error
	if apperr.IsRecordNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, nil
	}
	return access.FromUser(&u), nil
}
