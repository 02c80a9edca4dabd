package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CompanyInput carries the editable company fields.
type CompanyInput struct {
	Name         string
	Description  string
	Logo         string
	Website      string
	Type         models.CompanyType
	Size         models.CompanySize
	FoundedYear  *int
	Headquarters string
	Locations    []string
	LinkedinURL  string
	TwitterURL   string
	GithubURL    string
}

func (in *CompanyInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Logo = strings.TrimSpace(in.Logo)
	in.Website = strings.TrimSpace(in.Website)
	if in.Type == "" {
		in.Type = models.CompanyStartup
	}
	if in.Size == "" {
		in.Size = models.CompanySize1To10
	}
}

// Validate records the violations of in into v.
func (in CompanyInput) Validate(v validation.Violations) {
	validation.Required("name", in.Name, v)
	validation.Length("name", in.Name, 2, 255, v)
	validation.MaxLength("description", in.Description, 1000, v)
	validation.OptionalURL("logo", in.Logo, v)
	validation.OptionalURL("website", in.Website, v)
	validation.OptionalURL("linkedin_url", in.LinkedinURL, v)
	validation.OptionalURL("twitter_url", in.TwitterURL, v)
	validation.OptionalURL("github_url", in.GithubURL, v)
	validation.MaxLength("headquarters", in.Headquarters, 200, v)
	validation.OneOf("type", string(in.Type), models.Strings(models.CompanyTypes), v)
	validation.OneOf("size", string(in.Size), models.Strings(models.CompanySizes), v)
	if in.FoundedYear != nil {
		validation.RangeFloat("founded_year", float64(*in.FoundedYear), 1800, 2100, v)
	}
}

func errCompanyNameTaken(err error) error {
	return apperr.Duplicate("company_name_taken", "Company name already exists", err)
}

type CompanyService struct {
	Deps
}

func NewCompanyService(d Deps) *CompanyService {
	return &CompanyService{Deps: d.withDefaults()}
}

// Create validates in and inserts a company created by creatorID.
func (s *CompanyService) Create(ctx context.Context, in CompanyInput, creatorID string) (_ *models.Company, err error) {
	ctx, end := startSpan(ctx, "CompanyService.Create")
	defer end(&err)

	in.normalize()
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}
	c, err := createCompany(s.DB.WithContext(ctx), in, creatorID, s.Now)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("company created", zap.String("company_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

// createCompany inserts an already validated company using tx, which may
// be a transaction.
func createCompany(tx *gorm.DB, in CompanyInput, creatorID string, now func() time.Time) (*models.Company, error) {
	var count int64
	if err := tx.Model(&models.Company{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, apperr.Internal("checking company name", err)
	}
	if count > 0 {
		return nil, errCompanyNameTaken(nil)
	}
	slug, err := uniqueSlug(tx, &models.Company{}, slugBase(in.Name, "company"), companySlugSize, now)
	if err != nil {
		return nil, apperr.Internal("checking company slug", err)
	}

	c := &models.Company{
		Name:         in.Name,
		Slug:         slug,
		Description:  in.Description,
		Website:      in.Website,
		Logo:         in.Logo,
		Type:         in.Type,
		Size:         in.Size,
		FoundedYear:  in.FoundedYear,
		Headquarters: in.Headquarters,
		Locations:    datatypes.JSONSlice[string](nonNil(in.Locations)),
		LinkedinURL:  in.LinkedinURL,
		TwitterURL:   in.TwitterURL,
		GithubURL:    in.GithubURL,
		CreatorID:    creatorID,
	}
	if err := tx.Create(c).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, errCompanyNameTaken(err)
		}
		return nil, apperr.Internal("creating company", err)
	}
	return c, nil
}

// Update replaces the editable fields of a company. The slug is kept.
func (s *CompanyService) Update(ctx context.Context, companyID string, in CompanyInput) (_ *models.Company, err error) {
	ctx, end := startSpan(ctx, "CompanyService.Update")
	defer end(&err)

	c, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Company{}).Where("name = ? AND id <> ?", in.Name, companyID).Count(&count).Error; err != nil {
		return nil, apperr.Internal("checking company name", err)
	}
	if count > 0 {
		return nil, errCompanyNameTaken(nil)
	}

	err = db.Model(c).Updates(map[string]any{
		"name":         in.Name,
		"description":  in.Description,
		"website":      in.Website,
		"logo":         in.Logo,
		"type":         in.Type,
		"size":         in.Size,
		"founded_year": in.FoundedYear,
		"headquarters": in.Headquarters,
		"locations":    datatypes.JSONSlice[string](nonNil(in.Locations)),
		"linkedin_url": in.LinkedinURL,
		"twitter_url":  in.TwitterURL,
		"github_url":   in.GithubURL,
	}).Error
	if err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, errCompanyNameTaken(err)
		}
		return nil, apperr.Internal("updating company", err)
	}
	s.Logger.Info("company updated", zap.String("company_id", c.ID))
	return s.Get(ctx, companyID)
}

func (s *CompanyService) Get(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, apperr.FromDB(err, "company_not_found", "Company not found")
	}
	return &c, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
