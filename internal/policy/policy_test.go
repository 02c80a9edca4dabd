package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/ai-talent-hub/auth"
	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/internal/access"
	dbpkg "github.com/diewo77/ai-talent-hub/internal/db"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"github.com/diewo77/ai-talent-hub/internal/policy"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:policy_"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newGate(db *gorm.DB) *policy.AuthGate {
	ag := policy.NewAuthGate(db, zap.NewNop())
	scope := policy.NewCompanyScopePolicy()
	ag.RegisterPolicy(policy.ResourceJob, scope)
	ag.RegisterPolicy(policy.ResourceCompany, scope)
	ag.RegisterPolicy(policy.ResourceMember, scope)
	return ag
}

func TestGrantsFor(t *testing.T) {
	if policy.GrantsFor(nil) != nil {
		t.Error("anonymous visitors hold no grants")
	}

	engineer := policy.GrantsFor(&access.Identity{UserID: "u1", Role: models.RoleAIEngineer})
	if !engineer.HasPermission(gate.NewPermission(policy.ResourceJob, gate.ActionApply)) {
		t.Error("every user may apply to jobs")
	}
	if engineer.HasPermission(gate.NewPermission(policy.ResourceJob, gate.ActionCreate)) {
		t.Error("an engineer must not create jobs")
	}

	// ADMIN without a company is not a company admin
	loneAdmin := policy.GrantsFor(&access.Identity{UserID: "u2", Role: models.RoleAdmin})
	if loneAdmin.HasPermission(gate.NewPermission(policy.ResourceJob, gate.ActionCreate)) {
		t.Error("an unaffiliated admin must not create jobs")
	}

	admin := policy.GrantsFor(&access.Identity{UserID: "u3", Role: models.RoleAdmin, CompanyID: "c1"})
	for _, p := range []gate.Permission{
		gate.NewPermission(policy.ResourceJob, gate.ActionCreate),
		gate.NewPermission(policy.ResourceCompany, gate.ActionUpdate),
		gate.NewPermission(policy.ResourceMember, gate.ActionInvite),
	} {
		if !admin.HasPermission(p) {
			t.Errorf("company admin should hold %s", p)
		}
	}
}

func TestCompanyScopePolicy(t *testing.T) {
	p := policy.NewCompanyScopePolicy()
	ctx := context.Background()
	admin := &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c1"}

	if !p.Can(ctx, admin, gate.ActionUpdate, &models.Job{CompanyID: "c1"}) {
		t.Error("own company's job should be allowed")
	}
	if p.Can(ctx, admin, gate.ActionUpdate, &models.Job{CompanyID: "c2"}) {
		t.Error("another company's job must be denied")
	}
	if !p.Can(ctx, admin, gate.ActionView, policy.CompanyRef("c1")) {
		t.Error("company ref of own company should be allowed")
	}
	if p.Can(ctx, admin, gate.ActionView, struct{ ID string }{"c1"}) {
		t.Error("resources without a company must be denied")
	}
	if p.Can(ctx, &access.Identity{UserID: "u2", Role: models.RoleAdmin}, gate.ActionView, &models.Job{}) {
		t.Error("an unaffiliated identity never matches an empty company id")
	}
	if p.Can(ctx, nil, gate.ActionView, &models.Job{CompanyID: "c1"}) {
		t.Error("anonymous must be denied")
	}
}

func TestAuthorize(t *testing.T) {
	ag := newGate(setupDB(t))
	admin := &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c1"}
	ctx := access.WithIdentity(context.Background(), admin)

	if err := ag.Authorize(ctx, gate.ActionUpdate, policy.ResourceJob, &models.Job{CompanyID: "c1"}); err != nil {
		t.Errorf("expected allowed, got %v", err)
	}
	if err := ag.Authorize(ctx, gate.ActionUpdate, policy.ResourceJob, &models.Job{CompanyID: "c2"}); err != gate.ErrForbidden {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := ag.Authorize(context.Background(), gate.ActionView, policy.ResourceJob, nil); err != gate.ErrUnauthenticated {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if !ag.Can(ctx, gate.ActionInvite, policy.ResourceMember, &models.CompanyMember{CompanyID: "c1"}) {
		t.Error("admin should invite into own company")
	}
}

func TestGuard(t *testing.T) {
	ag := newGate(setupDB(t))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name     string
		level    access.Access
		id       *access.Identity
		company  string
		wantCode int
		wantLoc  string
	}{
		{"anonymous on authenticated page", access.Authenticated, nil, "", http.StatusSeeOther, "/login"},
		{"user on authenticated page", access.Authenticated, &access.Identity{UserID: "u1", Role: models.RoleAIEngineer}, "", http.StatusOK, ""},
		{"user on guest page", access.GuestOnly, &access.Identity{UserID: "u1", Role: models.RoleAIEngineer}, "", http.StatusSeeOther, "/dashboard"},
		{"admin on guest page", access.GuestOnly, &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c1"}, "", http.StatusSeeOther, "/dashboard/company/c1"},
		{"anonymous on admin page", access.CompanyAdmin, nil, "c1", http.StatusSeeOther, "/login"},
		{"non admin on admin page", access.CompanyAdmin, &access.Identity{UserID: "u1", Role: models.RoleRecruiter, CompanyID: "c1"}, "c1", http.StatusSeeOther, "/dashboard"},
		{"admin of another company", access.CompanyAdmin, &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c2"}, "c1", http.StatusSeeOther, "/dashboard"},
		{"admin of the company", access.CompanyAdmin, &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c1"}, "c1", http.StatusOK, ""},
		{"anonymous on public page", access.Public, nil, "", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/page", nil)
			if tc.company != "" {
				req.SetPathValue("companyId", tc.company)
			}
			if tc.id != nil {
				req = req.WithContext(access.WithIdentity(req.Context(), tc.id))
			}
			rr := httptest.NewRecorder()
			ag.Guard(tc.level)(ok).ServeHTTP(rr, req)
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			if got := rr.Header().Get("Location"); got != tc.wantLoc {
				t.Fatalf("expected location %q, got %q", tc.wantLoc, got)
			}
		})
	}
}

func TestIdentifyReadsFreshUser(t *testing.T) {
	db := setupDB(t)
	ag := newGate(db)
	c := &models.Company{Name: "Acme AI", Slug: "acme-ai", CreatorID: "seed"}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("company: %v", err)
	}
	u := &models.User{Email: "admin@example.com", Password: "x", Role: models.RoleAdmin, CompanyID: &c.ID}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}

	var seen *access.Identity
	h := ag.Identify(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = access.IdentityFromContext(r.Context())
	}))
	serve := func(userID string) *httptest.ResponseRecorder {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	serve(u.ID)
	if seen == nil || !seen.Administers(c.ID) {
		t.Fatalf("expected company admin identity, got %+v", seen)
	}

	if err := db.Model(u).Update("role", models.RoleAIEngineer).Error; err != nil {
		t.Fatalf("update role: %v", err)
	}
	serve(u.ID)
	if seen == nil || seen.IsCompanyAdmin() {
		t.Fatalf("role change should apply immediately, got %+v", seen)
	}

	rr := serve("missing-user")
	if seen != nil {
		t.Fatalf("unknown users are anonymous, got %+v", seen)
	}
	cleared := false
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == "session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("stale session cookie should be cleared")
	}
}

func TestIdentifyInactiveUser(t *testing.T) {
	db := setupDB(t)
	ag := newGate(db)
	u := &models.User{Email: "gone@example.com", Password: "x", Role: models.RoleAIEngineer}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := db.Model(u).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	var seen *access.Identity
	h := ag.Identify(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = access.IdentityFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), u.ID))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != nil {
		t.Fatalf("inactive users are anonymous, got %+v", seen)
	}
}
