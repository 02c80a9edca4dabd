package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

// DashboardHandler serves the generic dashboard of any signed-in user.
type DashboardHandler struct {
	users        *services.UserService
	applications *services.ApplicationService
	log          *zap.Logger
}

func NewDashboardHandler(users *services.UserService, applications *services.ApplicationService, log *zap.Logger) *DashboardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardHandler{users: users, applications: applications, log: log}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	user, err := h.users.Get(r.Context(), id.UserID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	apps, err := h.applications.ListForCandidate(r.Context(), id.UserID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	render(w, r, h.log, "dashboard.html", map[string]any{
		"User":         user,
		"Applications": apps,
	})
}
