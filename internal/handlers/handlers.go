// Package handlers serves the HTML pages and JSON endpoints of the job
// board. Handlers parse input, call the services and render; page access
// is enforced by the guards wrapped around them in the router.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/httpx"
	"github.com/diewo77/ai-talent-hub/i18n"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/view"
	"go.uber.org/zap"
)

// Authorizer checks an action of the current request's identity on a
// resource.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
}

// Sessions signs users in and out.
type Sessions interface {
	SignIn(w http.ResponseWriter, r *http.Request, userID string) error
	SignOut(w http.ResponseWriter, r *http.Request) error
}

// Resource types checked by the handlers.
const (
	resourceJob     = "job"
	resourceCompany = "company"
	resourceMember  = "member"
	resourceProfile = "profile"
)

// render writes a page; a template failure becomes a 500.
func render(w http.ResponseWriter, r *http.Request, log *zap.Logger, name string, data map[string]any) {
	renderStatus(w, r, log, http.StatusOK, name, data)
}

func renderStatus(w http.ResponseWriter, r *http.Request, log *zap.Logger, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, i18n.T(i18n.LangFromContext(r.Context()), "generic_error"), http.StatusInternalServerError)
	}
}

// renderForm re-renders a form page with err translated into a message and
// per-field messages. Internal errors are logged and shown generically.
func renderForm(w http.ResponseWriter, r *http.Request, log *zap.Logger, name string, data map[string]any, err error) {
	if data == nil {
		data = map[string]any{}
	}
	lang := i18n.LangFromContext(r.Context())
	status := http.StatusUnprocessableEntity
	de, ok := apperr.As(err)
	switch {
	case !ok || de.Type == apperr.TypeInternal:
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		data["Error"] = i18n.T(lang, "generic_error")
		status = http.StatusInternalServerError
	default:
		data["Error"] = i18n.T(lang, de.Code)
		if !de.Fields.Empty() {
			fields := make(map[string]string, len(de.Fields))
			for f, code := range de.Fields {
				fields[f] = i18n.T(lang, code)
			}
			data["Errors"] = fields
		}
		if de.Type != apperr.TypeValidation {
			status = apperr.HTTPStatus(de.Type)
		}
	}
	renderStatus(w, r, log, status, name, data)
}

// fail answers a request that has no form to re-render.
func fail(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	lang := i18n.LangFromContext(r.Context())
	t := apperr.TypeOf(err)
	if t == apperr.TypeInternal {
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	if httpx.WantsJSON(r) {
		httpx.DomainError(w, err)
		return
	}
	if t == apperr.TypeInternal {
		http.Error(w, i18n.T(lang, "generic_error"), http.StatusInternalServerError)
		return
	}
	de, _ := apperr.As(err)
	http.Error(w, i18n.T(lang, de.Code), apperr.HTTPStatus(t))
}

// deny redirects a request refused by the gate. JSON clients get the
// status instead.
func deny(w http.ResponseWriter, r *http.Request, err error) {
	unauthenticated := errors.Is(err, gate.ErrUnauthenticated)
	if httpx.WantsJSON(r) {
		if unauthenticated {
			httpx.JSONError(w, http.StatusUnauthorized, "not signed in", nil)
		} else {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		}
		return
	}
	if unauthenticated {
		http.Redirect(w, r, access.LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, access.DashboardPath, http.StatusSeeOther)
}

// identity returns the identity resolved for r, nil when anonymous.
func identity(r *http.Request) *access.Identity {
	return access.IdentityFromContext(r.Context())
}
