package policy

import (
	"context"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/models"
)

// Resource types known to the gate.
const (
	ResourceJob         = "job"
	ResourceCompany     = "company"
	ResourceMember      = "member"
	ResourceApplication = "application"
	ResourceProfile     = "profile"
)

// basePermissions are held by every signed-in user.
var basePermissions = []gate.Permission{
	gate.NewPermission(ResourceJob, gate.ActionView),
	gate.NewPermission(ResourceJob, gate.ActionList),
	gate.NewPermission(ResourceJob, gate.ActionApply),
	gate.NewPermission(ResourceCompany, gate.ActionView),
	gate.NewPermission(ResourceProfile, gate.ActionView),
	gate.NewPermission(ResourceProfile, gate.ActionUpdate),
}

// companyAdminPermissions are added for role ADMIN with a company affiliation.
var companyAdminPermissions = []gate.Permission{
	gate.NewPermission(ResourceJob, gate.WildcardAll),
	gate.NewPermission(ResourceCompany, gate.WildcardAll),
	gate.NewPermission(ResourceMember, gate.WildcardAll),
	gate.NewPermission(ResourceApplication, gate.ActionList),
}

// GrantsFor returns the permissions of an identity. An ADMIN without a
// company holds the base permissions only.
func GrantsFor(id *access.Identity) gate.PermissionSet {
	if id == nil {
		return nil
	}
	perms := append([]gate.Permission(nil), basePermissions...)
	if id.Role == models.RoleAdmin && id.CompanyID != "" {
		perms = append(perms, companyAdminPermissions...)
	}
	return gate.NewPermissionSet(perms...)
}

// RoleGrants resolves grants from the identity's role.
var RoleGrants = gate.GrantResolverFunc[*access.Identity](func(_ context.Context, id *access.Identity) (gate.Grants, error) {
	return GrantsFor(id), nil
})
