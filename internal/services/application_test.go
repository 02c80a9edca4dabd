package services

import (
	"context"
	"testing"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/events"
	"github.com/diewo77/ai-talent-hub/internal/models"
)

func TestApply(t *testing.T) {
	d, rec := setupDeps(t)
	c := createCompanyFixture(t, d.DB, "Acme")
	job := createJobFixture(t, d.DB, c.ID, jobFixture{title: "ML Engineer"})
	draft := createJobFixture(t, d.DB, c.ID, jobFixture{title: "Hidden", status: models.JobDraft})
	ada := createUserFixture(t, d.DB, "ada@example.com", models.RoleAIEngineer, nil)
	svc := NewApplicationService(d)
	ctx := context.Background()

	app, err := svc.Apply(ctx, job.ID, ada.ID, ApplicationInput{CoverLetter: "Hello", ResumeURL: "https://cv.example/ada.pdf"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("expected PENDING, got %s", app.Status)
	}
	var reloaded models.Job
	d.DB.First(&reloaded, "id = ?", job.ID)
	if reloaded.ApplicationsCount != 1 {
		t.Fatalf("applications counter should be 1, got %d", reloaded.ApplicationsCount)
	}

	if _, err := svc.Apply(ctx, job.ID, ada.ID, ApplicationInput{}); !apperr.Is(err, apperr.TypeDuplicate) {
		t.Fatalf("second application should be a duplicate, got %v", err)
	}
	if _, err := svc.Apply(ctx, draft.ID, ada.ID, ApplicationInput{}); !apperr.Is(err, apperr.TypeNotFound) {
		t.Fatalf("draft job should not accept applications, got %v", err)
	}
	if _, err := svc.Apply(ctx, job.ID, ada.ID, ApplicationInput{ResumeURL: "cv.pdf"}); !apperr.Is(err, apperr.TypeValidation) {
		t.Fatalf("invalid resume url should fail validation, got %v", err)
	}

	applied, err := svc.HasApplied(ctx, job.ID, ada.ID)
	if err != nil || !applied {
		t.Fatalf("HasApplied = %v, %v", applied, err)
	}
	apps, err := svc.ListForCandidate(ctx, ada.ID)
	if err != nil || len(apps) != 1 || apps[0].Job == nil || apps[0].Job.Company == nil {
		t.Fatalf("unexpected candidate applications %v %v", apps, err)
	}
	n, err := svc.CountForCompany(ctx, c.ID)
	if err != nil || n != 1 {
		t.Fatalf("CountForCompany = %d, %v", n, err)
	}
	if subjects := rec.Subjects(); len(subjects) != 1 || subjects[0] != events.SubjectApplicationSubmitted {
		t.Fatalf("expected application.submitted, got %v", subjects)
	}
}
