package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

// ProfileHandler lets users view and edit their own account.
type ProfileHandler struct {
	users *services.UserService
	authz Authorizer
	log   *zap.Logger
}

func NewProfileHandler(users *services.UserService, authz Authorizer, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{users: users, authz: authz, log: log}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), identity(r).UserID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	render(w, r, h.log, "profile/show.html", map[string]any{"User": user})
}

// Edit updates only the fields present in the submitted form.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := h.authz.Authorize(r.Context(), gate.ActionUpdate, resourceProfile, nil); err != nil {
		deny(w, r, err)
		return
	}
	userID := identity(r).UserID
	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		fail(w, r, h.log, err)
		return
	}
	data := map[string]any{"User": user}
	if r.Method == http.MethodGet {
		render(w, r, h.log, "profile/edit.html", data)
		return
	}

	upd := parseProfileForm(newFormParser(r))
	if _, err := h.users.Update(r.Context(), userID, upd); err != nil {
		renderForm(w, r, h.log, "profile/edit.html", data, err)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
