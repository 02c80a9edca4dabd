package services

import (
	"context"
	"sort"
	"testing"

	"github.com/diewo77/ai-talent-hub/internal/apperr"
	"github.com/diewo77/ai-talent-hub/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func seedListing(t *testing.T) *ListingService {
	t.Helper()
	d, _ := setupDeps(t)
	acme := createCompanyFixture(t, d.DB, "Acme")
	mlco := createCompanyFixture(t, d.DB, "HTML Studio")

	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "Senior ML Engineer", location: "Paris", remote: true})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "Backend Engineer", description: "Serve LLM and ML models", location: "Berlin"})
	createJobFixture(t, d.DB, mlco.ID, jobFixture{title: "Frontend Engineer", location: "paris", level: models.ExperienceJunior, kind: models.EmploymentContract})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "Data Scientist", location: "London", remote: true})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "ML Researcher", status: models.JobDraft, remote: true})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "ML Intern", status: models.JobClosed})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "Paused ML Engineer", location: "Paris", remote: true, status: models.JobPaused})
	createJobFixture(t, d.DB, mlco.ID, jobFixture{title: "Filled ML Engineer", location: "Paris", level: models.ExperienceJunior,
		kind: models.EmploymentContract, remote: true, status: models.JobFilled})
	createJobFixture(t, d.DB, acme.ID, jobFixture{title: "100% Remote Ops", remote: true})
	return NewListingService(d)
}

func titles(ls []JobListing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Title
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListing(t *testing.T) {
	svc := seedListing(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ListingFilter
		want   []string
	}{
		{"no filters returns active only", ListingFilter{},
			[]string{"100% Remote Ops", "Backend Engineer", "Data Scientist", "Frontend Engineer", "Senior ML Engineer"}},
		{"search matches title company or description", ListingFilter{Search: "ml"},
			[]string{"Backend Engineer", "Frontend Engineer", "Senior ML Engineer"}},
		{"search is case insensitive", ListingFilter{Search: "SENIOR"}, []string{"Senior ML Engineer"}},
		{"location substring", ListingFilter{Location: "PAR"}, []string{"Frontend Engineer", "Senior ML Engineer"}},
		{"remote true", ListingFilter{IsRemote: "true"}, []string{"100% Remote Ops", "Data Scientist", "Senior ML Engineer"}},
		{"remote other value imposes nothing", ListingFilter{IsRemote: "false"},
			[]string{"100% Remote Ops", "Backend Engineer", "Data Scientist", "Frontend Engineer", "Senior ML Engineer"}},
		{"enums are exact", ListingFilter{ExperienceLevel: "JUNIOR", EmploymentType: "CONTRACT"}, []string{"Frontend Engineer"}},
		{"filters are conjunctive", ListingFilter{Search: "ml", IsRemote: "true"}, []string{"Senior ML Engineer"}},
		{"percent is literal", ListingFilter{Search: "100%"}, []string{"100% Remote Ops"}},
		{"underscore is literal", ListingFilter{Search: "_"}, []string{}},
		{"every filter at once", ListingFilter{Search: "engineer", Location: "paris", ExperienceLevel: "JUNIOR", EmploymentType: "CONTRACT", IsRemote: "true"},
			[]string{}},
		{"location and remote", ListingFilter{Location: "Paris", IsRemote: "true"}, []string{"Senior ML Engineer"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if !equal(titles(got), tt.want) {
				t.Fatalf("got %v, want %v", titles(got), tt.want)
			}
			for _, l := range got {
				if l.Status != models.JobActive {
					t.Fatalf("listing returned %s job %q", l.Status, l.Title)
				}
			}
		})
	}
}

func TestListing_CompanyName(t *testing.T) {
	svc := seedListing(t)
	got, err := svc.List(context.Background(), ListingFilter{Search: "frontend"})
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected result %v %v", got, err)
	}
	if got[0].CompanyName != "HTML Studio" {
		t.Fatalf("expected company name to be joined, got %q", got[0].CompanyName)
	}
}

func TestListing_InvalidEnum(t *testing.T) {
	svc := seedListing(t)
	_, err := svc.List(context.Background(), ListingFilter{ExperienceLevel: "WIZARD"})
	if de, ok := apperr.As(err); !ok || de.Fields["experienceLevel"] != "invalid_choice" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestContainsPattern(t *testing.T) {
	if got := containsPattern(`A_b%c\`); got != `%a\_b\%c\\%` {
		t.Fatalf("unexpected pattern %q", got)
	}
}

func TestListing_NeverReturnsInactiveJobs(t *testing.T) {
	svc := seedListing(t)
	inactive := map[string]bool{"ML Researcher": true, "ML Intern": true, "Paused ML Engineer": true, "Filled ML Engineer": true}

	for _, search := range []string{"", "ml", "engineer"} {
		for _, location := range []string{"", "paris"} {
			for _, level := range []string{"", "SENIOR", "JUNIOR"} {
				for _, kind := range []string{"", "FULL_TIME", "CONTRACT"} {
					for _, remote := range []string{"", "true"} {
						f := ListingFilter{Search: search, Location: location, ExperienceLevel: level, EmploymentType: kind, IsRemote: remote}
						got, err := svc.List(context.Background(), f)
						if err != nil {
							t.Fatalf("list %+v: %v", f, err)
						}
						for _, l := range got {
							if inactive[l.Title] || l.Status != models.JobActive {
								t.Fatalf("filter %+v returned %s job %q", f, l.Status, l.Title)
							}
						}
					}
				}
			}
		}
	}
}

func TestListing_UnicodeCaseFolding(t *testing.T) {
	d, _ := setupDeps(t)
	zurich := createCompanyFixture(t, d.DB, "Zürich Labs")
	createJobFixture(t, d.DB, zurich.ID, jobFixture{title: "Über ML Engineer", location: "Zürich"})
	createJobFixture(t, d.DB, zurich.ID, jobFixture{title: "Data Engineer", location: "Genève"})
	svc := NewListingService(d)

	tests := []struct {
		filter ListingFilter
		want   []string
	}{
		{ListingFilter{Search: "über"}, []string{"Über ML Engineer"}},
		{ListingFilter{Search: "ZÜRICH"}, []string{"Data Engineer", "Über ML Engineer"}},
		{ListingFilter{Location: "GENÈVE"}, []string{"Data Engineer"}},
	}
	for _, tt := range tests {
		got, err := svc.List(context.Background(), tt.filter)
		if err != nil {
			t.Fatalf("list %+v: %v", tt.filter, err)
		}
		if !equal(titles(got), tt.want) {
			t.Fatalf("filter %+v: got %v, want %v", tt.filter, titles(got), tt.want)
		}
	}
}

func TestListing_SpanAttributes(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	svc := seedListing(t)
	if _, err := svc.List(context.Background(), ListingFilter{IsRemote: "true"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	var attrs []attribute.KeyValue
	for _, s := range rec.Ended() {
		if s.Name() == "ListingService.List" {
			attrs = s.Attributes()
		}
	}
	want := map[attribute.Key]attribute.Value{
		"listing.search":      attribute.BoolValue(false),
		"listing.remote_only": attribute.BoolValue(true),
		"listing.results":     attribute.IntValue(3),
	}
	for _, kv := range attrs {
		if v, ok := want[kv.Key]; ok {
			if v != kv.Value {
				t.Fatalf("%s: got %v, want %v", kv.Key, kv.Value.Emit(), v.Emit())
			}
			delete(want, kv.Key)
		}
	}
	if len(want) != 0 {
		t.Fatalf("missing span attributes %v", want)
	}
}
