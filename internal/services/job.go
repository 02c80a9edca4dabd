package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobInput carries the fields of a new job posting.
type JobInput struct {
	Title                string
	Slug                 string
	Description          string
	Requirements         string
	Responsibilities     string
	Benefits             string
	ExperienceLevel      models.ExperienceLevel
	EmploymentType       models.EmploymentType
	Location             string
	IsRemote             bool
	VisaSponsorship      bool
	EquityOffered        bool
	SalaryMin            *float64
	SalaryMax            *float64
	SalaryCurrency       string
	Skills               models.SkillSet
	AIDomains            []string
	ResearchComponent    bool
	PublicationsRequired bool
	ApplicationDeadline  *time.Time
	StartDate            *time.Time
}

func (in *JobInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.SalaryCurrency = strings.ToUpper(strings.TrimSpace(in.SalaryCurrency))
	if in.SalaryCurrency == "" {
		in.SalaryCurrency = "USD"
	}
}

// MaxSalary is the largest amount a decimal(10,2) salary column holds.
const MaxSalary = 99999999.99

func (in JobInput) Validate(v validation.Violations) {
	validation.Required("title", in.Title, v)
	validation.Length("title", in.Title, 2, 300, v)
	validation.MaxLength("slug", in.Slug, 300, v)
	validation.Required("description", in.Description, v)
	validation.MaxLength("description", in.Description, 1000, v)
	validation.MaxLength("requirements", in.Requirements, 1000, v)
	validation.MaxLength("responsibilities", in.Responsibilities, 1000, v)
	validation.MaxLength("benefits", in.Benefits, 255, v)
	validation.MaxLength("location", in.Location, 200, v)
	validation.OneOf("experience_level", string(in.ExperienceLevel), models.Strings(models.ExperienceLevels), v)
	validation.OneOf("employment_type", string(in.EmploymentType), models.Strings(models.EmploymentTypes), v)
	if len(in.SalaryCurrency) != 3 {
		v.Add("salary_currency", "invalid_choice")
	}
	if in.SalaryMin != nil {
		validation.NonNegativeFloat("salary_min", *in.SalaryMin, v)
		validation.RangeFloat("salary_min", *in.SalaryMin, 0, MaxSalary, v)
	}
	if in.SalaryMax != nil {
		validation.NonNegativeFloat("salary_max", *in.SalaryMax, v)
		validation.RangeFloat("salary_max", *in.SalaryMax, 0, MaxSalary, v)
	}
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > *in.SalaryMax {
		v.Add("salary_min", "salary_range")
	}
}

func errJobNotFound(err error) error {
	return apperr.NotFound("job_not_found", "Job not found", err)
}

type JobService struct {
	Deps
}

func NewJobService(d Deps) *JobService {
	return &JobService{Deps: d.withDefaults()}
}

// Create inserts a DRAFT job owned by companyID.
func (s *JobService) Create(ctx context.Context, in JobInput, companyID, createdBy string) (_ *models.Job, err error) {
	ctx, end := startSpan(ctx, "JobService.Create")
	defer end(&err)

	in.normalize()
	v := make(validation.Violations)
	in.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	db := s.DB.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Job{}).Where("title = ?", in.Title).Count(&count).Error; err != nil {
		return nil, apperr.Internal("checking job title", err)
	}
	if count > 0 {
		return nil, apperr.Duplicate("job_title_taken", "This Job Position already exists", nil)
	}
	base := models.Slugify(in.Slug)
	if base == "" {
		base = slugBase(in.Title, "job")
	}
	slug, err := uniqueSlug(db, &models.Job{}, base, jobSlugSize, s.Now)
	if err != nil {
		return nil, apperr.Internal("checking job slug", err)
	}

	job := &models.Job{
		CompanyID:            companyID,
		CreatedBy:            createdBy,
		Title:                in.Title,
		Slug:                 slug,
		Description:          in.Description,
		Requirements:         in.Requirements,
		Responsibilities:     in.Responsibilities,
		Benefits:             in.Benefits,
		ExperienceLevel:      in.ExperienceLevel,
		EmploymentType:       in.EmploymentType,
		Location:             in.Location,
		IsRemote:             in.IsRemote,
		VisaSponsorship:      in.VisaSponsorship,
		EquityOffered:        in.EquityOffered,
		SalaryMin:            in.SalaryMin,
		SalaryMax:            in.SalaryMax,
		SalaryCurrency:       in.SalaryCurrency,
		RequiredSkills:       datatypes.NewJSONType(in.Skills),
		AIDomains:            datatypes.JSONSlice[string](nonNil(in.AIDomains)),
		ResearchComponent:    in.ResearchComponent,
		PublicationsRequired: in.PublicationsRequired,
		Status:               models.JobDraft,
		ApplicationDeadline:  in.ApplicationDeadline,
		StartDate:            in.StartDate,
	}
	if err := db.Create(job).Error; err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Duplicate("job_title_taken", "This Job Position already exists", err)
		}
		return nil, apperr.Internal("creating job", err)
	}

	s.Logger.Info("job created", zap.String("job_id", job.ID), zap.String("company_id", companyID))
	s.publish(ctx, events.SubjectJobCreated, events.JobCreated{
		JobID:     job.ID,
		CompanyID: companyID,
		Title:     job.Title,
		Slug:      job.Slug,
	})
	return job, nil
}

// SetStatus moves a job of companyID to status. Any transition is allowed.
func (s *JobService) SetStatus(ctx context.Context, companyID, jobID string, status models.JobStatus) (_ *models.Job, err error) {
	ctx, end := startSpan(ctx, "JobService.SetStatus")
	defer end(&err)

	if !status.Valid() {
		return nil, apperr.Validation(validation.Violations{"status": "invalid_choice"})
	}
	db := s.DB.WithContext(ctx)
	var job models.Job
	if err := db.Where("id = ? AND company_id = ?", jobID, companyID).First(&job).Error; err != nil {
		if apperr.IsRecordNotFound(err) {
			return nil, errJobNotFound(err)
		}
		return nil, apperr.Internal("loading job", err)
	}

	from := job.Status
	now := s.Now()
	cols := map[string]any{"status": status}
	if status == models.JobActive && job.PublishedAt == nil {
		cols["published_at"] = now
	}
	if status.Closed() {
		cols["closed_at"] = now
	}
	if err := db.Model(&job).Updates(cols).Error; err != nil {
		return nil, apperr.Internal("updating job status", err)
	}

	s.Logger.Info("job status changed",
		zap.String("job_id", jobID),
		zap.String("from", string(from)),
		zap.String("to", string(status)))
	s.publish(ctx, events.SubjectJobStatusChanged, events.JobStatusChanged{
		JobID:     jobID,
		CompanyID: companyID,
		From:      string(from),
		To:        string(status),
	})
	return s.Get(ctx, jobID)
}

// Get loads a job with its company.
func (s *JobService) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).Preload("Company").First(&job, "id = ?", id).Error; err != nil {
		if apperr.IsRecordNotFound(err) {
			return nil, errJobNotFound(err)
		}
		return nil, apperr.Internal("loading job", err)
	}
	return &job, nil
}

// ListForCompany returns every job of a company, newest first.
func (s *JobService) ListForCompany(ctx context.Context, companyID string) ([]models.Job, error) {
	var jobs []models.Job
	if err := s.DB.WithContext(ctx).Where("company_id = ?", companyID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, apperr.Internal("listing company jobs", err)
	}
	return jobs, nil
}

// RecordView increments the view counter of a job.
func (s *JobService) RecordView(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
	if err != nil {
		s.Logger.Warn("failed to record job view", zap.String("job_id", id), zap.Error(err))
	}
	return err
}
