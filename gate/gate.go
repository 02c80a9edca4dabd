// Package gate is a small Gate/Policy authorization system.
//
// A Gate combines two checks:
//   - grants: the global "resource:action" permissions a subject holds,
//     typically derived from a role;
//   - policies: per resource type rules evaluated against a loaded
//     resource, such as "the job belongs to the subject's company".
//
// The package has no dependency on domain models. U is the subject type,
// for example *Identity or a user id.
package gate

import "context"

// Gate is the central authorization checkpoint.
type Gate[U comparable] struct {
	grants   GrantResolver[U]
	policies map[string]Policy[U]
}

// New creates a gate resolving subject grants with the given resolver.
func New[U comparable](grants GrantResolver[U]) *Gate[U] {
	return &Gate[U]{
		grants:   grants,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds a resource policy, replacing any previous one for the type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize checks, in order:
//  1. the subject is present (non-zero), else ErrUnauthenticated;
//  2. the subject's grants include resource:action, else ErrForbidden;
//  3. when a resource is given and a policy is registered for its type,
//     the policy allows it, else ErrForbidden.
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	var zero U
	if user == zero {
		return ErrUnauthenticated
	}

	if !g.Allows(ctx, user, action, resourceType) {
		return ErrForbidden
	}

	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok {
			if !policy.Can(ctx, user, action, resource) {
				return ErrForbidden
			}
		}
	}

	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// Allows checks only the grants, without any resource policy.
// Useful for UI to show/hide buttons before a specific resource is loaded.
func (g *Gate[U]) Allows(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero || g.grants == nil {
		return false
	}
	grants, err := g.grants.Resolve(ctx, user)
	if err != nil || grants == nil {
		return false
	}
	return grants.HasPermission(NewPermission(resourceType, action))
}
