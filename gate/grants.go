package gate

import (
	"context"
	"slices"
)

// Grants is the set of permissions held by a subject.
type Grants interface {
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// GrantResolver resolves a subject to its grants.
type GrantResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Grants, error)
}

// GrantResolverFunc adapts a function to GrantResolver.
type GrantResolverFunc[U any] func(ctx context.Context, user U) (Grants, error)

func (f GrantResolverFunc[U]) Resolve(ctx context.Context, user U) (Grants, error) {
	return f(ctx, user)
}

// PermissionSet is an in-memory Grants implementation.
type PermissionSet map[Permission]struct{}

// NewPermissionSet creates a set holding the given permissions.
func NewPermissionSet(permissions ...Permission) PermissionSet {
	s := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		s[p] = struct{}{}
	}
	return s
}

// Permissions returns the permissions in a stable order.
func (s PermissionSet) Permissions() []Permission {
	perms := make([]Permission, 0, len(s))
	for p := range s {
		perms = append(perms, p)
	}
	slices.Sort(perms)
	return perms
}

// HasPermission checks the requested permission, honoring wildcards.
func (s PermissionSet) HasPermission(requested Permission) bool {
	for p := range s {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}
