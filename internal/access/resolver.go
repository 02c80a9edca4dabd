// Package access decides where a visitor lands for a given page.
//
// Resolve is pure: callers load the authoritative role and company
// affiliation from the user store before calling it, because a session only
// proves who the visitor is, not what they may do.
package access

import (
	"context"

	"github.com/diewo77/ai-talent-hub/internal/models"
)

// Landing routes.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// CompanyDashboardPath returns the admin dashboard route of a company.
func CompanyDashboardPath(companyID string) string {
	return "/dashboard/company/" + companyID
}

// Identity is the freshly resolved view of the signed-in user.
type Identity struct {
	UserID    string
	Role      models.Role
	CompanyID string // "" when the user has no company affiliation
}

// FromUser builds an Identity from a user row.
func FromUser(u *models.User) *Identity {
	return &Identity{UserID: u.ID, Role: u.Role, CompanyID: u.AffiliatedCompanyID()}
}

// IsCompanyAdmin reports role ADMIN with a company affiliation. The role is
// checked before the affiliation.
func (id *Identity) IsCompanyAdmin() bool {
	if id == nil || id.Role != models.RoleAdmin {
		return false
	}
	return id.CompanyID != ""
}

// Administers reports whether id is the admin of companyID.
func (id *Identity) Administers(companyID string) bool {
	return id.IsCompanyAdmin() && companyID != "" && id.CompanyID == companyID
}

// Home is where a signed-in user is sent by default.
func Home(id *Identity) string {
	if id.IsCompanyAdmin() {
		return CompanyDashboardPath(id.CompanyID)
	}
	return DashboardPath
}

// Access classifies a page.
type Access int

const (
	// Public pages are open to everyone.
	Public Access = iota
	// Authenticated pages need a signed-in user.
	Authenticated
	// GuestOnly pages (login, signup) are for anonymous visitors.
	GuestOnly
	// CompanyAdmin pages need role ADMIN and the matching company.
	CompanyAdmin
)

// PageContext describes the requested page. CompanyID is the company named
// by the URL; for CompanyAdmin pages an empty CompanyID means the visitor's
// own company.
type PageContext struct {
	Access    Access
	CompanyID string
}

// Decision is the outcome of Resolve. An empty Redirect means the visitor
// stays on the page.
type Decision struct {
	Redirect     string
	CanCreateJob bool
}

// Allowed reports whether the page may be rendered.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// Resolve decides the outcome for a visitor (nil when anonymous) on page.
func Resolve(id *Identity, page PageContext) Decision {
	d := Decision{CanCreateJob: canCreateJob(id, page)}
	switch page.Access {
	case Authenticated:
		if id == nil {
			d.Redirect = LoginPath
		}
	case GuestOnly:
		if id != nil {
			d.Redirect = Home(id)
		}
	case CompanyAdmin:
		switch {
		case id == nil:
			d.Redirect = LoginPath
		case !id.IsCompanyAdmin():
			d.Redirect = DashboardPath
		case page.CompanyID != "" && page.CompanyID != id.CompanyID:
			d.Redirect = DashboardPath
		}
	}
	return d
}

func canCreateJob(id *Identity, page PageContext) bool {
	if !id.IsCompanyAdmin() {
		return false
	}
	return page.CompanyID == "" || page.CompanyID == id.CompanyID
}

type ctxKey struct{}

// WithIdentity stores the resolved identity for downstream handlers.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity resolved for this request, nil
// when the visitor is anonymous or no guard ran.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}
