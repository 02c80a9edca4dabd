package policy

import (
	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/internal/handlers"
	"github.com/diewo77/ai-talent-hub/internal/services"
)

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides identity resolution, page guards and resource checks.
	AuthGate *AuthGate
	// Sessions reads and writes the session cookie.
	Sessions *auth.Manager

	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	CompanyHandler   *handlers.CompanyHandler
	JobHandler       *handlers.JobHandler
	ProfileHandler   *handlers.ProfileHandler
	APIHandler       *handlers.APIHandler
}

// NewRouterConfig creates a fully configured router setup: the
// authorization gate with its company scope policies, the services sharing
// deps and the handlers on top of them.
//
// Example usage in your router setup:
//
//	cfg := policy.NewRouterConfig(deps, sessions)
//	mux.Handle("GET /dashboard/company/{companyId}",
//		cfg.AuthGate.Guard(access.CompanyAdmin)(http.HandlerFunc(cfg.CompanyHandler.Dashboard)))
func NewRouterConfig(deps services.Deps, sessions *auth.Manager) *RouterConfig {
	authGate := NewAuthGate(deps.DB, deps.Logger)

	// company-owned resources are only reachable by that company's admin
	scope := NewCompanyScopePolicy()
	authGate.RegisterPolicy(ResourceJob, scope)
	authGate.RegisterPolicy(ResourceCompany, scope)
	authGate.RegisterPolicy(ResourceMember, scope)
	authGate.RegisterPolicy(ResourceApplication, scope)

	users := services.NewUserService(deps)
	registration := services.NewRegistrationService(deps)
	companies := services.NewCompanyService(deps)
	jobs := services.NewJobService(deps)
	listing := services.NewListingService(deps)
	members := services.NewMemberService(deps)
	applications := services.NewApplicationService(deps)

	log := deps.Logger
	return &RouterConfig{
		AuthGate:         authGate,
		Sessions:         sessions,
		AuthHandler:      handlers.NewAuthHandler(users, registration, sessions, log),
		DashboardHandler: handlers.NewDashboardHandler(users, applications, log),
		CompanyHandler:   handlers.NewCompanyHandler(companies, jobs, members, applications, authGate, log),
		JobHandler:       handlers.NewJobHandler(listing, jobs, applications, authGate, log),
		ProfileHandler:   handlers.NewProfileHandler(users, authGate, log),
		APIHandler:       handlers.NewAPIHandler(users, listing, log),
	}
}
