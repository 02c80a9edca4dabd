package services

import (
	"context"
	"strings"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminInput is the first administrator of a company being registered.
type AdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Username  string
}

func (in *AdminInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
}

func (in AdminInput) Validate(v validation.Violations) {
	validateCredentials(in.Email, in.Password, in.Username, v)
	validation.Required("first_name", in.FirstName, v)
	validation.MaxLength("first_name", in.FirstName, 100, v)
	validation.Required("last_name", in.LastName, v)
	validation.MaxLength("last_name", in.LastName, 100, v)
}

// SignupInput is an individual sign-up.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Username string
	Role     models.Role
}

func (in *SignupInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Username = strings.TrimSpace(in.Username)
	if in.Role == "" {
		in.Role = models.RoleAIEngineer
	}
}

func (in SignupInput) Validate(v validation.Violations) {
	validateCredentials(in.Email, in.Password, in.Username, v)
	validation.MaxLength("name", in.Name, 255, v)
	validation.OneOf("role", string(in.Role), models.Strings(models.SignupRoles), v)
}

func validateCredentials(email, password, username string, v validation.Violations) {
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if len(password) < auth.MinPasswordLength {
		v.Add("password", "password_too_short")
	}
	if username != "" {
		validation.Length("username", username, 3, 100, v)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Registration is the outcome of a company registration.
type Registration struct {
	Admin   *models.User
	Company *models.Company
	Member  *models.CompanyMember
}

type RegistrationService struct {
	Deps
}

func NewRegistrationService(d Deps) *RegistrationService {
	return &RegistrationService{Deps: d.withDefaults()}
}

// RegisterCompany creates the admin user, the company, the affiliation and
// the ADMIN membership in one transaction.
func (s *RegistrationService) RegisterCompany(ctx context.Context, company CompanyInput, admin AdminInput) (_ *Registration, err error) {
	ctx, end := startSpan(ctx, "RegistrationService.RegisterCompany")
	defer end(&err)

	company.normalize()
	admin.normalize()
	v := make(validation.Violations)
	company.Validate(v)
	admin.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	var reg Registration
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &models.User{
			Email:     admin.Email,
			Username:  optional(admin.Username),
			Name:      strings.TrimSpace(admin.FirstName + " " + admin.LastName),
			FirstName: admin.FirstName,
			LastName:  admin.LastName,
			Password:  hash,
			Role:      models.RoleAdmin,
		}
		if err := createUser(tx, user); err != nil {
			return err
		}

		c, err := createCompany(tx, company, user.ID, s.Now)
		if err != nil {
			return err
		}

		if err := tx.Model(user).Update("company_id", c.ID).Error; err != nil {
			return apperr.Internal("linking admin to company", err)
		}
		user.CompanyID = &c.ID

		now := s.Now()
		member := &models.CompanyMember{
			CompanyID: c.ID,
			UserID:    user.ID,
			Role:      models.MemberAdmin,
			Status:    models.MemberActive,
			InvitedBy: &user.ID,
			InvitedAt: &now,
			JoinedAt:  &now,
		}
		member.GrantAll()
		if err := tx.Create(member).Error; err != nil {
			return apperr.Internal("creating company member", err)
		}

		reg = Registration{Admin: user, Company: c, Member: member}
		return nil
	})
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.Internal("registering company", err)
		}
		return nil, err
	}

	s.Logger.Info("company registered",
		zap.String("company_id", reg.Company.ID),
		zap.String("admin_id", reg.Admin.ID))
	s.publish(ctx, events.SubjectCompanyRegistered, events.CompanyRegistered{
		CompanyID: reg.Company.ID,
		Name:      reg.Company.Name,
		Slug:      reg.Company.Slug,
		AdminID:   reg.Admin.ID,
	})
	return &reg, nil
}

// RegisterUser signs up an individual user with a non-ADMIN role.
func (s *RegistrationService) RegisterUser(ctx context.Context, in SignupInput) (_ *models.User, err error) {
	ctx, end := startSpan(ctx, "RegistrationService.RegisterUser")
	defer end(&err)

	in.normalize()
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}
	user := &models.User{
		Email:    in.Email,
		Username: optional(in.Username),
		Name:     in.Name,
		Password: hash,
		Role:     in.Role,
	}
	if err := createUser(s.DB.WithContext(ctx), user); err != nil {
		return nil, err
	}
	s.Logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// createUser inserts u after checking email and username uniqueness.
func createUser(tx *gorm.DB, u *models.User) error {
	if err := checkUserUnique(tx, u.Email, u.Username, ""); err != nil {
		return err
	}
	if err := tx.Create(u).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return apperr.Duplicate("email_taken", "Email already exists", err)
		}
		return apperr.Internal("creating user", err)
	}
	return nil
}

// checkUserUnique reports a DuplicateError when email or username belong to
// a user other than exceptID.
func checkUserUnique(tx *gorm.DB, email string, username *string, exceptID string) error {
	taken := func(column, value string) (bool, error) {
		q := tx.Model(&models.User{}).Where(column+" = ?", value)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}
		var count int64
		err := q.Count(&count).Error
		return count > 0, err
	}
	if email != "" {
		dup, err := taken("email", email)
		if err != nil {
			return apperr.Internal("checking email", err)
		}
		if dup {
			return apperr.Duplicate("email_taken", "Email already exists", nil)
		}
	}
	if username != nil && *username != "" {
		dup, err := taken("username", *username)
		if err != nil {
			return apperr.Internal("checking username", err)
		}
		if dup {
			return apperr.Duplicate("username_taken", "Username already taken", nil)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
