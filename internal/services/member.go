package services

import (
	"context"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MemberService struct {
	Deps
}

func NewMemberService(d Deps) *MemberService {
	return &MemberService{Deps: d.withDefaults()}
}

// List returns the members of a company with their users.
func (s *MemberService) List(ctx context.Context, companyID string) ([]models.CompanyMember, error) {
	var members []models.CompanyMember
	err := s.DB.WithContext(ctx).Preload("User").
		Where("company_id = ?", companyID).
		Order("created_at").
		Find(&members).Error
	if err != nil {
		return nil, apperr.Internal("listing members", err)
	}
	return members, nil
}

// Invite adds an existing, unaffiliated user to a company.
func (s *MemberService) Invite(ctx context.Context, companyID, email string, role models.MemberRole, invitedBy string) (_ *models.CompanyMember, err error) {
	ctx, end := startSpan(ctx, "MemberService.Invite")
	defer end(&err)

	email = normalizeEmail(email)
	if role == "" {
		role = models.MemberEmployee
	}
	v := make(validation.Violations)
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	validation.OneOf("role", string(role), models.Strings(models.MemberRoles), v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	var member *models.CompanyMember
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if apperr.IsRecordNotFound(err) {
				return apperr.NotFound("user_not_found", "User not found", err)
			}
			return apperr.Internal("loading user", err)
		}
		if user.AffiliatedCompanyID() != "" {
			return apperr.Duplicate("already_member", "User already belongs to a company", nil)
		}

		now := s.Now()
		member = &models.CompanyMember{
			CompanyID: companyID,
			UserID:    user.ID,
			Role:      role,
			Status:    models.MemberActive,
			InvitedBy: &invitedBy,
			InvitedAt: &now,
			JoinedAt:  &now,
		}
		applyRoleFlags(member)
		if err := tx.Create(member).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Duplicate("already_member", "User already belongs to a company", err)
			}
			return apperr.Internal("creating member", err)
		}
		if err := tx.Model(&user).Update("company_id", companyID).Error; err != nil {
			return apperr.Internal("linking user to company", err)
		}
		member.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("member invited",
		zap.String("company_id", companyID),
		zap.String("user_id", member.UserID),
		zap.String("role", string(role)))
	return member, nil
}

// Remove deletes a membership and clears the user's affiliation. Members
// cannot remove themselves.
func (s *MemberService) Remove(ctx context.Context, companyID, memberID, actorID string) (err error) {
	ctx, end := startSpan(ctx, "MemberService.Remove")
	defer end(&err)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.CompanyMember
		if err := tx.Where("id = ? AND company_id = ?", memberID, companyID).First(&m).Error; err != nil {
			if apperr.IsRecordNotFound(err) {
				return apperr.NotFound("member_not_found", "Member not found", err)
			}
			return apperr.Internal("loading member", err)
		}
		if m.UserID == actorID {
			return apperr.New(apperr.TypeValidation, "cannot_remove_self", "You cannot remove yourself", nil)
		}
		if err := tx.Delete(&m).Error; err != nil {
			return apperr.Internal("deleting member", err)
		}
		err := tx.Model(&models.User{}).
			Where("id = ? AND company_id = ?", m.UserID, companyID).
			Update("company_id", nil).Error
		if err != nil {
			return apperr.Internal("unlinking user", err)
		}
		s.Logger.Info("member removed", zap.String("company_id", companyID), zap.String("user_id", m.UserID))
		return nil
	})
}

// applyRoleFlags sets the permission flags implied by the member role.
func applyRoleFlags(m *models.CompanyMember) {
	switch m.Role {
	case models.MemberAdmin:
		m.GrantAll()
	case models.MemberRecruiter:
		m.CanPostJobs = true
		m.CanManageApplications = true
	case models.MemberHRManager:
		m.CanManageApplications = true
		m.CanManageMembers = true
	}
}
