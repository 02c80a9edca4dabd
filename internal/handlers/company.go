package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

// CompanyHandler serves the company admin pages. Every route lives under
// /dashboard/company/{companyId} and is guarded for that company's admin.
type CompanyHandler struct {
	companies    *services.CompanyService
	jobs         *services.JobService
	members      *services.MemberService
	applications *services.ApplicationService
	authz        Authorizer
	log          *zap.Logger
}

func NewCompanyHandler(companies *services.CompanyService, jobs *services.JobService, members *services.MemberService,
	applications *services.ApplicationService, authz Authorizer, log *zap.Logger) *CompanyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompanyHandler{
		companies:    companies,
		jobs:         jobs,
		members:      members,
		applications: applications,
		authz:        authz,
		log:          log,
	}
}

// Dashboard lists the company's jobs, members and application count.
func (h *CompanyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.dashboardData(r)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	render(w, r, h.log, "company/dashboard.html", data)
}

func (h *CompanyHandler) dashboardData(r *http.Request) (map[string]any, error) {
	ctx := r.Context()
	companyID := r.PathValue("companyId")
	company, err := h.companies.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	jobs, err := h.jobs.ListForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	members, err := h.members.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	applications, err := h.applications.CountForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	active := 0
	for _, j := range jobs {
		if j.Status == models.JobActive {
			active++
		}
	}
	return withOptions(map[string]any{
		"Company": company,
		"Jobs":    jobs,
		"Members": members,
		"Stats": map[string]any{
			"Jobs":         len(jobs),
			"ActiveJobs":   active,
			"Members":      len(members),
			"Applications": applications,
		},
	}), nil
}

// renderDashboardError re-renders the dashboard with the message of err.
func (h *CompanyHandler) renderDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	data, loadErr := h.dashboardData(r)
	if loadErr != nil {
		fail(w, r, h.log, loadErr)
		return
	}
	renderForm(w, r, h.log, "company/dashboard.html", data, err)
}

// Edit shows and saves the company profile.
func (h *CompanyHandler) Edit(w http.ResponseWriter, r *http.Request) {
	company, err := h.companies.Get(r.Context(), r.PathValue("companyId"))
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	if err := h.authz.Authorize(r.Context(), gate.ActionUpdate, resourceCompany, company); err != nil {
		deny(w, r, err)
		return
	}
	data := withOptions(map[string]any{"Company": company, "Form": companyForm(company)})
	if r.Method == http.MethodGet {
		render(w, r, h.log, "company/edit.html", data)
		return
	}

	p := newFormParser(r)
	in := parseCompanyForm(p)
	data["Form"] = in
	if err := p.err(); err != nil {
		renderForm(w, r, h.log, "company/edit.html", data, err)
		return
	}
	if _, err := h.companies.Update(r.Context(), company.ID, in); err != nil {
		renderForm(w, r, h.log, "company/edit.html", data, err)
		return
	}
	http.Redirect(w, r, access.CompanyDashboardPath(company.ID), http.StatusSeeOther)
}

// Invite adds an existing user, looked up by email, to the company.
func (h *CompanyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyId")
	if err := h.authz.Authorize(r.Context(), gate.ActionInvite, resourceMember, &models.CompanyMember{CompanyID: companyID}); err != nil {
		deny(w, r, err)
		return
	}
	id := identity(r)
	role := models.MemberRole(r.FormValue("role"))
	if _, err := h.members.Invite(r.Context(), companyID, r.FormValue("email"), role, id.UserID); err != nil {
		h.renderDashboardError(w, r, err)
		return
	}
	http.Redirect(w, r, access.CompanyDashboardPath(companyID), http.StatusSeeOther)
}

// RemoveMember removes a member other than the acting admin.
func (h *CompanyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyId")
	if err := h.authz.Authorize(r.Context(), gate.ActionDelete, resourceMember, &models.CompanyMember{CompanyID: companyID}); err != nil {
		deny(w, r, err)
		return
	}
	if err := h.members.Remove(r.Context(), companyID, r.PathValue("memberId"), identity(r).UserID); err != nil {
		h.renderDashboardError(w, r, err)
		return
	}
	http.Redirect(w, r, access.CompanyDashboardPath(companyID), http.StatusSeeOther)
}

// SetJobStatus publishes, pauses or closes one of the company's jobs.
func (h *CompanyHandler) SetJobStatus(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyId")
	if err := h.authz.Authorize(r.Context(), gate.ActionUpdate, resourceJob, &models.Job{CompanyID: companyID}); err != nil {
		deny(w, r, err)
		return
	}
	status := models.JobStatus(r.FormValue("status"))
	if _, err := h.jobs.SetStatus(r.Context(), companyID, r.PathValue("jobId"), status); err != nil {
		h.renderDashboardError(w, r, err)
		return
	}
	http.Redirect(w, r, access.CompanyDashboardPath(companyID), http.StatusSeeOther)
}

// companyForm prefills the edit form from the stored company.
func companyForm(c *models.Company) services.CompanyInput {
	return services.CompanyInput{
		Name:         c.Name,
		Description:  c.Description,
		Logo:         c.Logo,
		Website:      c.Website,
		Type:         c.Type,
		Size:         c.Size,
		FoundedYear:  c.FoundedYear,
		Headquarters: c.Headquarters,
		Locations:    c.Locations,
		LinkedinURL:  c.LinkedinURL,
		TwitterURL:   c.TwitterURL,
		GithubURL:    c.GithubURL,
	}
}
