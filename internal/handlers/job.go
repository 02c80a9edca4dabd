package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

type JobHandler struct {
	listing      *services.ListingService
	jobs         *services.JobService
	applications *services.ApplicationService
	authz        Authorizer
	log          *zap.Logger
}

func NewJobHandler(listing *services.ListingService, jobs *services.JobService, applications *services.ApplicationService,
	authz Authorizer, log *zap.Logger) *JobHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobHandler{listing: listing, jobs: jobs, applications: applications, authz: authz, log: log}
}

// listingFilter reads the listing filters from the query string.
func listingFilter(r *http.Request) services.ListingFilter {
	q := r.URL.Query()
	return services.ListingFilter{
		Search:          q.Get("search"),
		Location:        q.Get("location"),
		ExperienceLevel: q.Get("experienceLevel"),
		EmploymentType:  q.Get("employmentType"),
		IsRemote:        q.Get("isRemote"),
	}
}

// List shows the public listing of ACTIVE jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := listingFilter(r)
	data := withOptions(map[string]any{"Filter": filter})
	jobs, err := h.listing.List(r.Context(), filter)
	if err != nil {
		data["Jobs"] = []services.JobListing{}
		renderForm(w, r, h.log, "jobs/index.html", data, err)
		return
	}
	data["Jobs"] = jobs
	render(w, r, h.log, "jobs/index.html", data)
}

// New shows the job form. Only company admins reach it.
func (h *JobHandler) New(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.log, "jobs/new.html", withOptions(map[string]any{"Form": services.JobInput{}}))
}

// Create posts a DRAFT job for the admin's own company.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	if err := h.authz.Authorize(r.Context(), gate.ActionCreate, resourceJob, &models.Job{CompanyID: id.CompanyID}); err != nil {
		deny(w, r, err)
		return
	}
	p := newFormParser(r)
	in := parseJobForm(p)
	data := withOptions(map[string]any{"Form": in})
	if err := p.err(); err != nil {
		renderForm(w, r, h.log, "jobs/new.html", data, err)
		return
	}
	job, err := h.jobs.Create(r.Context(), in, id.CompanyID, id.UserID)
	if err != nil {
		renderForm(w, r, h.log, "jobs/new.html", data, err)
		return
	}
	http.Redirect(w, r, "/jobs/"+job.ID, http.StatusSeeOther)
}

// Show renders a job. Jobs that are not ACTIVE are visible to the admin of
// the owning company only; everyone else gets a 404.
func (h *JobHandler) Show(w http.ResponseWriter, r *http.Request) {
	data, err := h.showData(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	render(w, r, h.log, "jobs/show.html", data)
}

func (h *JobHandler) showData(r *http.Request) (map[string]any, error) {
	ctx := r.Context()
	job, err := h.jobs.Get(ctx, r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	id := identity(r)
	manages := id.Administers(job.CompanyID)
	if job.Status != models.JobActive && !manages {
		return nil, apperr.NotFound("job_not_found", "Job not found", nil)
	}
	if job.Status == models.JobActive && !manages {
		_ = h.jobs.RecordView(ctx, job.ID)
	}
	applied := false
	if id != nil {
		if applied, err = h.applications.HasApplied(ctx, job.ID, id.UserID); err != nil {
			return nil, apperr.Internal("checking application", err)
		}
	}
	return withOptions(map[string]any{
		"Job":       job,
		"Skills":    job.RequiredSkills.Data(),
		"CanManage": manages,
		"CanApply":  id != nil && !applied && job.Status == models.JobActive,
		"Applied":   applied || r.URL.Query().Get("applied") == "1",
		"Form":      services.ApplicationInput{},
	}), nil
}

// Apply submits the signed-in user's application.
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if err := h.authz.Authorize(r.Context(), gate.ActionApply, resourceJob, nil); err != nil {
		deny(w, r, err)
		return
	}
	p := newFormParser(r)
	in := services.ApplicationInput{
		CoverLetter:  p.value("cover_letter"),
		ResumeURL:    p.value("resume_url"),
		PortfolioURL: p.value("portfolio_url"),
	}
	if _, err := h.applications.Apply(r.Context(), jobID, identity(r).UserID, in); err != nil {
		if apperr.Is(err, apperr.TypeNotFound) {
			fail(w, r, h.log, err)
			return
		}
		data, loadErr := h.showData(r)
		if loadErr != nil {
			fail(w, r, h.log, loadErr)
			return
		}
		data["Form"] = in
		renderForm(w, r, h.log, "jobs/show.html", data, err)
		return
	}
	http.Redirect(w, r, "/jobs/"+jobID+"?applied=1", http.StatusSeeOther)
}
