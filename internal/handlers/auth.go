package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users        *services.UserService
	registration *services.RegistrationService
	sessions     Sessions
	log          *zap.Logger
}

func NewAuthHandler(users *services.UserService, registration *services.RegistrationService, sessions Sessions, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{users: users, registration: registration, sessions: sessions, log: log}
}

// Login signs a user in and sends them to their home page: the company
// dashboard for company admins, /dashboard for everyone else.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, "login.html")
}

// LoginCompany is the company flavoured login page.
func (h *AuthHandler) LoginCompany(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, "login_company.html")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, page string) {
	if r.Method == http.MethodGet {
		render(w, r, h.log, page, map[string]any{"Email": ""})
		return
	}

	email := r.FormValue("email")
	user, err := h.users.Authenticate(r.Context(), email, r.FormValue("password"))
	if err != nil {
		renderForm(w, r, h.log, page, map[string]any{"Email": email}, err)
		return
	}
	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		renderForm(w, r, h.log, page, map[string]any{"Email": email}, err)
		return
	}
	h.log.Info("user signed in", zap.String("user_id", user.ID))
	http.Redirect(w, r, access.Home(access.FromUser(user)), http.StatusSeeOther)
}

// Signup registers an individual account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	data := withOptions(map[string]any{"Form": services.SignupInput{}})
	if r.Method == http.MethodGet {
		render(w, r, h.log, "signup.html", data)
		return
	}

	p := newFormParser(r)
	in := services.SignupInput{
		Email:    p.value("email"),
		Password: r.FormValue("password"),
		Name:     p.value("name"),
		Username: p.value("username"),
		Role:     models.Role(p.value("role")),
	}
	data["Form"] = services.SignupInput{Email: in.Email, Name: in.Name, Username: in.Username, Role: in.Role}
	user, err := h.registration.RegisterUser(r.Context(), in)
	if err != nil {
		renderForm(w, r, h.log, "signup.html", data, err)
		return
	}
	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		renderForm(w, r, h.log, "signup.html", data, err)
		return
	}
	http.Redirect(w, r, access.DashboardPath, http.StatusSeeOther)
}

// RegisterCompany creates a company together with its admin account and
// signs the admin in.
func (h *AuthHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	data := withOptions(map[string]any{"Company": services.CompanyInput{}, "Admin": services.AdminInput{}})
	if r.Method == http.MethodGet {
		render(w, r, h.log, "register_company.html", data)
		return
	}

	p := newFormParser(r)
	company := parseCompanyForm(p)
	admin := parseAdminForm(p)
	data["Company"] = company
	data["Admin"] = services.AdminInput{Email: admin.Email, FirstName: admin.FirstName, LastName: admin.LastName, Username: admin.Username}
	if err := p.err(); err != nil {
		renderForm(w, r, h.log, "register_company.html", data, err)
		return
	}
	reg, err := h.registration.RegisterCompany(r.Context(), company, admin)
	if err != nil {
		renderForm(w, r, h.log, "register_company.html", data, err)
		return
	}
	if err := h.sessions.SignIn(w, r, reg.Admin.ID); err != nil {
		renderForm(w, r, h.log, "register_company.html", data, err)
		return
	}
	http.Redirect(w, r, access.CompanyDashboardPath(reg.Company.ID), http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.log.Warn("sign out failed", zap.Error(err))
	}
	http.Redirect(w, r, access.LoginPath, http.StatusSeeOther)
}
