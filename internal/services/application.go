package services

import (
	"context"
	"strings"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ApplicationInput struct {
	CoverLetter  string
	ResumeURL    string
	PortfolioURL string
}

func (in ApplicationInput) Validate(v validation.Violations) {
	validation.MaxLength("cover_letter", in.CoverLetter, 5000, v)
	validation.OptionalURL("resume_url", in.ResumeURL, v)
	validation.OptionalURL("portfolio_url", in.PortfolioURL, v)
}

type ApplicationService struct {
	Deps
}

func NewApplicationService(d Deps) *ApplicationService {
	return &ApplicationService{Deps: d.withDefaults()}
}

// Apply records a candidate's application to an ACTIVE job and bumps the
// job's application counter.
func (s *ApplicationService) Apply(ctx context.Context, jobID, candidateID string, in ApplicationInput) (_ *models.Application, err error) {
	ctx, end := startSpan(ctx, "ApplicationService.Apply")
	defer end(&err)

	in.CoverLetter = strings.TrimSpace(in.CoverLetter)
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	in.PortfolioURL = strings.TrimSpace(in.PortfolioURL)
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	var app *models.Application
	var job models.Job
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND status = ?", jobID, models.JobActive).First(&job).Error; err != nil {
			if apperr.IsRecordNotFound(err) {
				return errJobNotFound(err)
			}
			return apperr.Internal("loading job", err)
		}
		var count int64
		if err := tx.Model(&models.Application{}).Where("job_id = ? AND candidate_id = ?", jobID, candidateID).Count(&count).Error; err != nil {
			return apperr.Internal("checking application", err)
		}
		if count > 0 {
			return apperr.Duplicate("already_applied", "You already applied to this job", nil)
		}
		app = &models.Application{
			JobID:        jobID,
			CandidateID:  candidateID,
			CoverLetter:  in.CoverLetter,
			ResumeURL:    in.ResumeURL,
			PortfolioURL: in.PortfolioURL,
			Status:       models.ApplicationPending,
		}
		if err := tx.Create(app).Error; err != nil {
			if apperr.IsUniqueViolation(err) {
				return apperr.Duplicate("already_applied", "You already applied to this job", err)
			}
			return apperr.Internal("creating application", err)
		}
		return tx.Model(&job).UpdateColumn("applications_count", gorm.Expr("applications_count + ?", 1)).Error
	})
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.Internal("applying to job", err)
		}
		return nil, err
	}

	s.Logger.Info("application submitted", zap.String("job_id", jobID), zap.String("candidate_id", candidateID))
	s.publish(ctx, events.SubjectApplicationSubmitted, events.ApplicationSubmitted{
		ApplicationID: app.ID,
		JobID:         jobID,
		CompanyID:     job.CompanyID,
		CandidateID:   candidateID,
	})
	return app, nil
}

// ListForCandidate returns a candidate's applications, newest first.
func (s *ApplicationService) ListForCandidate(ctx context.Context, candidateID string) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.WithContext(ctx).Preload("Job.Company").
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, apperr.Internal("listing applications", err)
	}
	return apps, nil
}

// HasApplied reports whether the candidate already applied to the job.
func (s *ApplicationService) HasApplied(ctx context.Context, jobID, candidateID string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		Count(&count).Error
	return count > 0, err
}

// CountForCompany counts the applications received by a company's jobs.
func (s *ApplicationService) CountForCompany(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.company_id = ?", companyID).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internal("counting applications", err)
	}
	return count, nil
}
