package policy

import (
	"context"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/access"
)

// CompanyScoped is implemented by resources that belong to a company.
type CompanyScoped interface {
	GetCompanyID() string
}

// CompanyScopePolicy allows access to resources of the identity's own
// company only.
type CompanyScopePolicy struct{}

func NewCompanyScopePolicy() *CompanyScopePolicy {
	return &CompanyScopePolicy{}
}

// Can denies resources that do not implement CompanyScoped.
func (p *CompanyScopePolicy) Can(_ context.Context, id *access.Identity, _ gate.Action, resource any) bool {
	if id == nil {
		return false
	}
	scoped, ok := resource.(CompanyScoped)
	if !ok {
		return false
	}
	return id.CompanyID != "" && id.CompanyID == scoped.GetCompanyID()
}

// CompanyRef is a bare company id usable as a resource before any row is loaded.
type CompanyRef string

func (c CompanyRef) GetCompanyID() string { return string(c) }
