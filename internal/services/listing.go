package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/telemetry"
	"github.com/diewo77/ai-talent-hub/validation"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// ListingFilter holds the optional listing filters as received from the
// query string. Empty means "not present".
type ListingFilter struct {
	Search          string
	Location        string
	ExperienceLevel string
	EmploymentType  string
	IsRemote        string
}

// Validate rejects unknown enumeration values.
func (f ListingFilter) Validate(v validation.Violations) {
	if f.ExperienceLevel != "" {
		validation.OneOf("experienceLevel", f.ExperienceLevel, models.Strings(models.ExperienceLevels), v)
	}
	if f.EmploymentType != "" {
		validation.OneOf("employmentType", f.EmploymentType, models.Strings(models.EmploymentTypes), v)
	}
}

// JobListing is an ACTIVE job joined with its company name.
type JobListing struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	Slug              string                 `json:"slug"`
	Description       string                 `json:"description"`
	Location          string                 `json:"location"`
	IsRemote          bool                   `json:"is_remote"`
	ExperienceLevel   models.ExperienceLevel `json:"experience_level"`
	EmploymentType    models.EmploymentType  `json:"employment_type"`
	SalaryMin         *float64               `json:"salary_min,omitempty"`
	SalaryMax         *float64               `json:"salary_max,omitempty"`
	SalaryCurrency    string                 `json:"salary_currency"`
	Status            models.JobStatus       `json:"status"`
	ApplicationsCount int                    `json:"applications_count"`
	PublishedAt       *time.Time             `json:"published_at,omitempty"`
	CompanyID         string                 `json:"company_id"`
	CompanyName       string                 `json:"company_name"`
}

func (l JobListing) SalaryRange() string {
	j := models.Job{SalaryMin: l.SalaryMin, SalaryMax: l.SalaryMax, SalaryCurrency: l.SalaryCurrency}
	return j.SalaryRange()
}

const listingColumns = "jobs.id, jobs.title, jobs.slug, jobs.description, jobs.location, jobs.is_remote, " +
	"jobs.experience_level, jobs.employment_type, jobs.salary_min, jobs.salary_max, jobs.salary_currency, " +
	"jobs.status, jobs.applications_count, jobs.published_at, jobs.company_id, companies.name AS company_name"

type ListingService struct {
	Deps
}

func NewListingService(d Deps) *ListingService {
	return &ListingService{Deps: d.withDefaults()}
}

// clause is one optional predicate of the listing query.
type clause struct {
	present bool
	apply   func(*gorm.DB) *gorm.DB
}

// List returns the ACTIVE jobs matching every present filter.
func (s *ListingService) List(ctx context.Context, f ListingFilter) (_ []JobListing, err error) {
	ctx, end := startSpan(ctx, "ListingService.List")
	defer end(&err)

	f.Search = strings.TrimSpace(f.Search)
	f.Location = strings.TrimSpace(f.Location)
	v := make(validation.Violations)
	f.Validate(v)
	if !v.Empty() {
		return nil, apperr.Validation(v)
	}

	q := s.DB.WithContext(ctx).Model(&models.Job{}).
		Select(listingColumns).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.status = ?", models.JobActive)

	// LOWER only folds ASCII on sqlite, so text filters run in Go there.
	foldInSQL := s.DB.Dialector.Name() == "postgres"
	clauses := []clause{
		{f.Search != "" && foldInSQL, func(db *gorm.DB) *gorm.DB {
			p := containsPattern(f.Search)
			return db.Where(
				`(LOWER(jobs.title) LIKE ? ESCAPE '\' OR LOWER(companies.name) LIKE ? ESCAPE '\' OR LOWER(jobs.description) LIKE ? ESCAPE '\')`,
				p, p, p)
		}},
		{f.Location != "" && foldInSQL, func(db *gorm.DB) *gorm.DB {
			return db.Where(`LOWER(jobs.location) LIKE ? ESCAPE '\'`, containsPattern(f.Location))
		}},
		{f.ExperienceLevel != "", func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.experience_level = ?", f.ExperienceLevel)
		}},
		{f.EmploymentType != "", func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.employment_type = ?", f.EmploymentType)
		}},
		{f.IsRemote == "true", func(db *gorm.DB) *gorm.DB {
			return db.Where("jobs.is_remote = ?", true)
		}},
	}
	for _, c := range clauses {
		if c.present {
			q = c.apply(q)
		}
	}

	listings := []JobListing{}
	if err := q.Scan(&listings).Error; err != nil {
		return nil, apperr.Internal("listing jobs", err)
	}
	if !foldInSQL && (f.Search != "" || f.Location != "") {
		listings = filterText(listings, f)
	}
	trace.SpanFromContext(ctx).SetAttributes(
		telemetry.Bool("listing.search", f.Search != ""),
		telemetry.Bool("listing.remote_only", f.IsRemote == "true"),
		telemetry.Int("listing.results", len(listings)),
	)
	return listings, nil
}

// filterText keeps the listings matching the search and location terms,
// folding case with Unicode rules.
func filterText(listings []JobListing, f ListingFilter) []JobListing {
	search, location := strings.ToLower(f.Search), strings.ToLower(f.Location)
	contains := func(field, term string) bool {
		return strings.Contains(strings.ToLower(field), term)
	}
	out := listings[:0]
	for _, l := range listings {
		if search != "" && !contains(l.Title, search) && !contains(l.CompanyName, search) && !contains(l.Description, search) {
			continue
		}
		if location != "" && !contains(l.Location, location) {
			continue
		}
		out = append(out, l)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
