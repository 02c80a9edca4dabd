package services

import (
	"context"
	"strings"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
)

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Email           *string
	Username        *string
	Name            *string
	FirstName       *string
	LastName        *string
	Role            *models.Role
	Image           *string
	Bio             *string
	Location        *string
	Timezone        *string
	GithubURL       *string
	LinkedinURL     *string
	PersonalWebsite *string
}

func (u *UserUpdate) normalize() {
	if u.Email != nil {
		e := normalizeEmail(*u.Email)
		u.Email = &e
	}
	for _, p := range []*string{u.Username, u.Name, u.FirstName, u.LastName, u.Location, u.Timezone} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

func (u UserUpdate) Validate(v validation.Violations) {
	if u.Email != nil {
		validation.Email("email", *u.Email, v)
	}
	if u.Username != nil && *u.Username != "" {
		validation.Length("username", *u.Username, 3, 100, v)
	}
	if u.Name != nil {
		validation.MaxLength("name", *u.Name, 255, v)
	}
	if u.FirstName != nil {
		validation.MaxLength("first_name", *u.FirstName, 100, v)
	}
	if u.LastName != nil {
		validation.MaxLength("last_name", *u.LastName, 100, v)
	}
	if u.Role != nil {
		validation.OneOf("role", string(*u.Role), models.Strings(models.Roles), v)
	}
	if u.Bio != nil {
		validation.MaxLength("bio", *u.Bio, 1000, v)
	}
	if u.Location != nil {
		validation.MaxLength("location", *u.Location, 200, v)
	}
	for field, p := range map[string]*string{
		"image":            u.Image,
		"github_url":       u.GithubURL,
		"linkedin_url":     u.LinkedinURL,
		"personal_website": u.PersonalWebsite,
	} {
		if p != nil {
			validation.OptionalURL(field, *p, v)
		}
	}
}

// columns returns the columns to write, keyed by column name.
func (u UserUpdate) columns() map[string]any {
	cols := map[string]any{}
	set := func(col string, p *string) {
		if p != nil {
			cols[col] = *p
		}
	}
	set("email", u.Email)
	set("name", u.Name)
	set("first_name", u.FirstName)
	set("last_name", u.LastName)
	set("image", u.Image)
	set("bio", u.Bio)
	set("location", u.Location)
	set("timezone", u.Timezone)
	set("github_url", u.GithubURL)
	set("linkedin_url", u.LinkedinURL)
	set("personal_website", u.PersonalWebsite)
	if u.Username != nil {
		// an empty username clears it
		cols["username"] = optional(*u.Username)
	}
	if u.Role != nil {
		cols["role"] = *u.Role
	}
	return cols
}

type UserService struct {
	Deps
}

func NewUserService(d Deps) *UserService {
	return &UserService{Deps: d.withDefaults()}
}

// Authenticate checks the credentials and stamps last_login_at.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (_ *models.User, err error) {
	ctx, end := startSpan(ctx, "UserService.Authenticate")
	defer end(&err)

	var u models.User
	db := s.DB.WithContext(ctx)
	if err := db.Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		if apperr.IsRecordNotFound(err) {
			return nil, apperr.Unauthorized("Invalid email or password", nil)
		}
		return nil, apperr.Internal("loading user", err)
	}
	if !u.IsActive || !auth.CheckPassword(u.Password, password) {
		return nil, apperr.Unauthorized("Invalid email or password", nil)
	}
	now := s.Now()
	if err := db.Model(&u).UpdateColumn("last_login_at", now).Error; err != nil {
		s.Logger.Warn("failed to stamp last login", zap.String("user_id", u.ID), zap.Error(err))
	}
	u.LastLoginAt = &now
	return &u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "user_not_found", "User not found")
	}
	return &u, nil
}

// Update applies the non-nil fields of upd to the user.
func (s *UserService) Update(ctx context.Context, userID string, upd UserUpdate) (_ *models.User, err error) {
	ctx, end := startSpan(ctx, "UserService.Update")
	defer end(&err)

	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	upd.normalize()
	v := make(validation.Violations)
	upd.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	db := s.DB.WithContext(ctx)
	var email string
	if upd.Email != nil {
		email = *upd.Email
	}
	if err := checkUserUnique(db, email, upd.Username, userID); err != nil {
		return nil, err
	}
	cols := upd.columns()
	if len(cols) == 0 {
		return u, nil
	}
	if err := db.Model(u).Updates(cols).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Duplicate("email_taken", "Email already exists", err)
		}
		return nil, apperr.Internal("updating user", err)
	}
	s.Logger.Info("user updated", zap.String("user_id", userID), zap.Int("fields", len(cols)))
	return s.Get(ctx, userID)
}
