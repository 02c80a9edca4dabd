package services

import (
	"context"
	"testing"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
)

func validJob(title string) JobInput {
	lo, hi := 100000.0, 150000.0
	return JobInput{
		Title:           title,
		Description:     "Train and ship models.",
		ExperienceLevel: models.ExperienceSenior,
		EmploymentType:  models.EmploymentFullTime,
		SalaryMin:       &lo,
		SalaryMax:       &hi,
		Skills:          models.SkillSet{Programming: []string{"Python"}, MinYearsExperience: 3},
		AIDomains:       []string{"NLP"},
	}
}

func TestJobCreate(t *testing.T) {
	d, rec := setupDeps(t)
	c := createCompanyFixture(t, d.DB, "Acme")
	svc := NewJobService(d)
	ctx := context.Background()

	job, err := svc.Create(ctx, validJob("Senior ML Engineer"), c.ID, "u1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if job.Status != models.JobDraft || job.Slug != "senior-ml-engineer" || job.SalaryCurrency != "USD" {
		t.Fatalf("unexpected job %s %s %s", job.Status, job.Slug, job.SalaryCurrency)
	}

	got, err := svc.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Company == nil || got.Company.Name != "Acme" {
		t.Fatalf("company should be preloaded")
	}
	if skills := got.RequiredSkills.Data(); len(skills.Programming) != 1 || skills.MinYearsExperience != 3 {
		t.Fatalf("skills not round-tripped: %+v", skills)
	}
	if subjects := rec.Subjects(); len(subjects) != 1 || subjects[0] != events.SubjectJobCreated {
		t.Fatalf("expected job.created, got %v", subjects)
	}

	// same title, even from another company
	other := createCompanyFixture(t, d.DB, "Globex")
	_, err = svc.Create(ctx, validJob("Senior ML Engineer"), other.ID, "u2")
	if de, ok := apperr.As(err); !ok || de.Message != "This Job Position already exists" {
		t.Fatalf("expected duplicate title error, got %v", err)
	}
}

func TestJobCreate_SlugCollision(t *testing.T) {
	d, _ := setupDeps(t)
	c := createCompanyFixture(t, d.DB, "Acme")
	svc := NewJobService(d)
	ctx := context.Background()

	in := validJob("ML Engineer")
	if _, err := svc.Create(ctx, in, c.ID, "u1"); err != nil {
		t.Fatal(err)
	}
	in = validJob("ML Engineer (Paris)")
	in.Slug = "ml-engineer"
	job, err := svc.Create(ctx, in, c.ID, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if job.Slug == "ml-engineer" {
		t.Fatalf("colliding slug should get a suffix")
	}
}

func TestJobCreate_Validation(t *testing.T) {
	d, _ := setupDeps(t)
	svc := NewJobService(d)
	lo, hi := 200.0, 100.0
	neg := -1.0

	_, err := svc.Create(context.Background(), JobInput{
		Title:           "X",
		ExperienceLevel: "GURU",
		EmploymentType:  models.EmploymentContract,
		SalaryMin:       &lo,
		SalaryMax:       &hi,
		SalaryCurrency:  "EURO",
	}, "c1", "u1")
	de, ok := apperr.As(err)
	if !ok || de.Type != apperr.TypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	for field, code := range map[string]string{
		"title":            "too_short",
		"description":      "required",
		"experience_level": "invalid_choice",
		"salary_min":       "salary_range",
		"salary_currency":  "invalid_choice",
	} {
		if de.Fields[field] != code {
			t.Errorf("%s: expected %s, got %q", field, code, de.Fields[field])
		}
	}

	in := validJob("Negative")
	in.SalaryMin = &neg
	_, err = svc.Create(context.Background(), in, "c1", "u1")
	if de, _ := apperr.As(err); de == nil || de.Fields["salary_min"] != "must_be_positive" {
		t.Fatalf("expected must_be_positive, got %v", err)
	}

	huge := MaxSalary + 1
	in = validJob("Oversized")
	in.SalaryMin = nil
	in.SalaryMax = &huge
	_, err = svc.Create(context.Background(), in, "c1", "u1")
	if de, _ := apperr.As(err); de == nil || de.Type != apperr.TypeValidation || de.Fields["salary_max"] != "out_of_range" {
		t.Fatalf("expected out_of_range, got %v", err)
	}
}

func TestJobSetStatus(t *testing.T) {
	d, rec := setupDeps(t)
	c := createCompanyFixture(t, d.DB, "Acme")
	svc := NewJobService(d)
	ctx := context.Background()
	job, _ := svc.Create(ctx, validJob("Research Scientist"), c.ID, "u1")

	active, err := svc.SetStatus(ctx, c.ID, job.ID, models.JobActive)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if active.Status != models.JobActive || active.PublishedAt == nil {
		t.Fatalf("activation should stamp published_at")
	}
	closed, err := svc.SetStatus(ctx, c.ID, job.ID, models.JobFilled)
	if err != nil {
		t.Fatal(err)
	}
	if closed.ClosedAt == nil {
		t.Fatalf("FILLED should stamp closed_at")
	}
	// no transition table: FILLED back to DRAFT is accepted
	if _, err := svc.SetStatus(ctx, c.ID, job.ID, models.JobDraft); err != nil {
		t.Fatalf("unrestricted transition: %v", err)
	}

	if _, err := svc.SetStatus(ctx, "other-company", job.ID, models.JobActive); !apperr.Is(err, apperr.TypeNotFound) {
		t.Fatalf("job of another company must be not found, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, c.ID, job.ID, "ARCHIVED"); !apperr.Is(err, apperr.TypeValidation) {
		t.Fatalf("unknown status must be rejected, got %v", err)
	}

	n := 0
	for _, s := range rec.Subjects() {
		if s == events.SubjectJobStatusChanged {
			n++
		}
	}
	if n != 3 {
		t.Fatalf("expected 3 status events, got %d", n)
	}
}

func TestJobListForCompanyAndViews(t *testing.T) {
	d, _ := setupDeps(t)
	a := createCompanyFixture(t, d.DB, "Acme")
	b := createCompanyFixture(t, d.DB, "Globex")
	j := createJobFixture(t, d.DB, a.ID, jobFixture{title: "One"})
	createJobFixture(t, d.DB, a.ID, jobFixture{title: "Two", status: models.JobDraft})
	createJobFixture(t, d.DB, b.ID, jobFixture{title: "Three"})
	svc := NewJobService(d)
	ctx := context.Background()

	jobs, err := svc.ListForCompany(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs for Acme, got %d", len(jobs))
	}

	if err := svc.RecordView(ctx, j.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, j.ID)
	if got.ViewsCount != 1 {
		t.Fatalf("expected 1 view, got %d", got.ViewsCount)
	}
}
