package policy

import (
	"context"
	"net/http"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthGate is the central authorization point: it resolves identities from
// the session user id and answers page and resource checks.
type AuthGate struct {
	Gate       *gate.Gate[*access.Identity]
	identities *IdentityResolver
	log        *zap.Logger
}

// NewAuthGate creates a gate backed by role grants and the user table.
func NewAuthGate(db *gorm.DB, log *zap.Logger) *AuthGate {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthGate{
		Gate:       gate.New[*access.Identity](RoleGrants),
		identities: NewIdentityResolver(db),
		log:        log,
	}
}

// RegisterPolicy adds a resource policy.
// Example: authGate.RegisterPolicy("job", policy.NewCompanyScopePolicy())
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[*access.Identity]) {
	ag.Gate.Register(resourceType, p)
}

// Identify resolves the session user into an identity on every request.
// It must run after the session middleware.
func (ag *AuthGate) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		id, err := ag.identities.Resolve(r.Context(), userID)
		if err != nil {
			ag.log.Error("identity lookup failed", zap.String("user_id", userID), zap.Error(err))
			http.Error(w, "Something went wrong", http.StatusInternalServerError)
			return
		}
		if id == nil {
			// the session outlived its user
			auth.ClearSession(w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), id)))
	})
}

// Guard returns middleware enforcing the page access level. The company of
// CompanyAdmin pages is read from the {companyId} path value. Denied
// visitors are redirected, never shown an error.
func (ag *AuthGate) Guard(level access.Access) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := access.IdentityFromContext(r.Context())
			d := access.Resolve(id, access.PageContext{Access: level, CompanyID: r.PathValue("companyId")})
			if !d.Allowed() {
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authorize checks if the current identity can perform an action on a resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	return ag.Gate.Authorize(ctx, access.IdentityFromContext(ctx), action, resourceType, resource)
}

// Can is a convenience method that returns bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}
