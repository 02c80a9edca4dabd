package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/ai-talent-hub/i18n"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/models"
)

func useTemplates(t *testing.T) {
	t.Helper()
	ResetForTests()
	SetBaseDir(filepath.Join("..", "templates"))
	t.Cleanup(ResetForTests)
}

func TestRenderStatus(t *testing.T) {
	useTemplates(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithTheme(i18n.WithLang(req.Context(), "fr"), "dark"))
	rr := httptest.NewRecorder()

	if err := RenderStatus(rr, req, http.StatusAccepted, "index.html", nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{`lang="fr"`, `data-theme="dark"`, "Find your next AI role", "/register-company"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q", want)
		}
	}
}

func TestRenderMissingTemplateWritesNothing(t *testing.T) {
	useTemplates(t)
	rr := httptest.NewRecorder()
	if err := Render(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope/missing.html", nil); err == nil {
		t.Fatal("expected an error for a missing template")
	}
	if rr.Body.Len() != 0 || rr.Header().Get("Content-Type") != "" {
		t.Fatalf("nothing should be written, got %q", rr.Body.String())
	}
}

func TestDefaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data := defaults(req, nil)
	if data["IsLoggedIn"] != false || data["CanCreateJob"] != false {
		t.Fatalf("anonymous defaults wrong: %v", data)
	}
	if _, ok := data["HomePath"]; ok {
		t.Fatal("anonymous visitors have no home path")
	}

	id := &access.Identity{UserID: "u1", Role: models.RoleAdmin, CompanyID: "c1"}
	req = req.WithContext(access.WithIdentity(req.Context(), id))
	data = defaults(req, map[string]any{"Year": 1999})
	if data["Year"] != 1999 {
		t.Fatal("explicit values must win")
	}
	if data["CanCreateJob"] != true || data["HomePath"] != "/dashboard/company/c1" {
		t.Fatalf("company admin defaults wrong: %v", data)
	}
}

func TestFuncs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	fm := Funcs(req)

	dict := fm["dict"].(func(...any) map[string]any)
	if m := dict("A", 1, "B", "two"); m["A"] != 1 || m["B"] != "two" {
		t.Fatalf("dict: %v", m)
	}
	if dict("odd") != nil {
		t.Fatal("dict with odd arguments should be nil")
	}

	date := fm["date"].(func(any) string)
	day := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	var none *time.Time
	if date(day) != "2025-01-02" || date(&day) != "2025-01-02" || date(none) != "" {
		t.Fatal("date formatting mismatch")
	}

	can := fm["can"].(func(string, string) bool)
	SetCanResolver(func(_ *http.Request, resource, action string) bool { return resource == "job" && action == "create" })
	t.Cleanup(func() { canResolver = nil })
	if !can("job", "create") || can("company", "update") {
		t.Fatal("can should ask the resolver")
	}
}

func TestThemeFromContext(t *testing.T) {
	if got := ThemeFromContext(context.Background()); got != "light" {
		t.Fatalf("expected light default, got %q", got)
	}
	if got := ThemeFromContext(WithTheme(context.Background(), "dark")); got != "dark" {
		t.Fatalf("expected dark, got %q", got)
	}
}

func TestResolveAssetFallback(t *testing.T) {
	if got := resolveAsset("https://cdn.example.com/x.css"); got != "https://cdn.example.com/x.css" {
		t.Fatalf("absolute urls pass through, got %q", got)
	}
	if got := resolveAsset("missing.css"); got != "/static/missing.css" {
		t.Fatalf("unexpected asset path %q", got)
	}
}
