package handlers

import (
	"net/http"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/httpx"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/services"
	"go.uber.org/zap"
)

// APIHandler serves the JSON endpoints.
type APIHandler struct {
	users   *services.UserService
	listing *services.ListingService
	log     *zap.Logger
}

func NewAPIHandler(users *services.UserService, listing *services.ListingService, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{users: users, listing: listing, log: log}
}

type meResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Username    *string `json:"username,omitempty"`
	Role        string  `json:"role"`
	CompanyID   *string `json:"company_id,omitempty"`
	DisplayName string  `json:"display_name"`
}

// Me returns the session user, or 401 without a valid session or when the
// account is inactive.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	id := identity(r)
	if !ok || id == nil || id.UserID != userID {
		httpx.DomainError(w, apperr.Unauthorized("not signed in", nil))
		return
	}
	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if apperr.Is(err, apperr.TypeNotFound) {
			httpx.DomainError(w, apperr.Unauthorized("not signed in", err))
			return
		}
		h.log.Error("loading session user", zap.String("user_id", userID), zap.Error(err))
		httpx.DomainError(w, err)
		return
	}
	if !u.IsActive {
		httpx.DomainError(w, apperr.Unauthorized("not signed in", nil))
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Username:    u.Username,
		Role:        string(u.Role),
		CompanyID:   u.CompanyID,
		DisplayName: u.DisplayName(),
	})
}

type jobsResponse struct {
	Jobs  []services.JobListing `json:"jobs"`
	Count int                   `json:"count"`
}

// Jobs returns the public listing filtered like GET /jobs.
func (h *APIHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.listing.List(r.Context(), listingFilter(r))
	if err != nil {
		if apperr.TypeOf(err) == apperr.TypeInternal {
			h.log.Error("listing jobs", zap.Error(err))
		}
		httpx.DomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, jobsResponse{Jobs: jobs, Count: len(jobs)})
}
