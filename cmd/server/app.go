package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/diewo77/ai-talent-hub/gate"
	"github.com/diewo77/ai-talent-hub/i18n"
	"github.com/diewo77/ai-talent-hub/internal/access"
	"github.com/diewo77/ai-talent-hub/internal/policy"
	"github.com/diewo77/ai-talent-hub/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
	log       *zap.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
		log:       log,
	}
	// Templates ask the gate through a callback so the view package does
	// not depend on policy.
	view.SetCanResolver(func(r *http.Request, resource, action string) bool {
		return routerCfg.AuthGate.Can(r.Context(), gate.Action(action), resource, nil)
	})
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// session -> fresh identity -> preferences -> routes
	handler := a.routerCfg.Sessions.Middleware(a.routerCfg.AuthGate.Identify(withPreferences(a.mux)))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	guard := a.routerCfg.AuthGate.Guard
	public := guard(access.Public)
	guest := guard(access.GuestOnly)
	authed := guard(access.Authenticated)
	companyAdmin := guard(access.CompanyAdmin)

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	jh := a.routerCfg.JobHandler
	a.mux.Handle("GET /{$}", public(http.HandlerFunc(a.landingPage)))
	a.mux.Handle("GET /jobs", public(http.HandlerFunc(jh.List)))
	a.mux.Handle("GET /jobs/{id}", public(http.HandlerFunc(jh.Show)))
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.healthz)

	// ─────────────────────────────────────────────────────────────────────────
	// Guest-only routes (signed-in users are sent to their home page)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler
	for _, m := range []string{"GET", "POST"} {
		a.mux.Handle(m+" /login", guest(http.HandlerFunc(ah.Login)))
		a.mux.Handle(m+" /login-company", guest(http.HandlerFunc(ah.LoginCompany)))
		a.mux.Handle(m+" /signup", guest(http.HandlerFunc(ah.Signup)))
		a.mux.Handle(m+" /register-company", guest(http.HandlerFunc(ah.RegisterCompany)))
		a.mux.HandleFunc(m+" /logout", ah.Logout)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	dh := a.routerCfg.DashboardHandler
	ph := a.routerCfg.ProfileHandler
	a.mux.Handle("GET /dashboard", authed(http.HandlerFunc(dh.Show)))
	a.mux.Handle("POST /jobs/{id}/apply", authed(http.HandlerFunc(jh.Apply)))
	a.mux.Handle("GET /profile", authed(http.HandlerFunc(ph.Show)))
	a.mux.Handle("GET /profile/edit", authed(http.HandlerFunc(ph.Edit)))
	a.mux.Handle("POST /profile/edit", authed(http.HandlerFunc(ph.Edit)))

	// ─────────────────────────────────────────────────────────────────────────
	// Company admin routes (role ADMIN and the company named by the URL)
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.routerCfg.CompanyHandler
	a.mux.Handle("GET /jobs/new", companyAdmin(http.HandlerFunc(jh.New)))
	a.mux.Handle("POST /jobs", companyAdmin(http.HandlerFunc(jh.Create)))
	a.mux.Handle("GET /dashboard/company/{companyId}", companyAdmin(http.HandlerFunc(ch.Dashboard)))
	a.mux.Handle("GET /dashboard/company/{companyId}/edit", companyAdmin(http.HandlerFunc(ch.Edit)))
	a.mux.Handle("POST /dashboard/company/{companyId}/edit", companyAdmin(http.HandlerFunc(ch.Edit)))
	a.mux.Handle("POST /dashboard/company/{companyId}/members", companyAdmin(http.HandlerFunc(ch.Invite)))
	a.mux.Handle("POST /dashboard/company/{companyId}/members/{memberId}/delete", companyAdmin(http.HandlerFunc(ch.RemoveMember)))
	a.mux.Handle("POST /dashboard/company/{companyId}/jobs/{jobId}/status", companyAdmin(http.HandlerFunc(ch.SetJobStatus)))

	// ─────────────────────────────────────────────────────────────────────────
	// JSON API
	// ─────────────────────────────────────────────────────────────────────────
	api := a.routerCfg.APIHandler
	a.mux.HandleFunc("GET /api/me", api.Me)
	a.mux.HandleFunc("GET /api/jobs", api.Jobs)

	// ─────────────────────────────────────────────────────────────────────────
	// Static files
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// withPreferences injects the language (query, cookie, then
// Accept-Language) and theme preferences.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		ctx = i18n.WithLang(ctx, lang)

		if c, err := r.Cookie("theme"); err == nil {
			ctx = view.WithTheme(ctx, c.Value)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs method, path, status and duration of every request.
func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// withRecover answers a panicking request with a 500.
func withRecover(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic serving request",
					zap.String("path", r.URL.Path),
					zap.String("panic", fmt.Sprint(v)),
					zap.Stack("stack"))
				http.Error(w, "Something went wrong", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Page handlers
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	if err := view.Render(w, r, "index.html", nil); err != nil {
		a.log.Error("render landing page", zap.Error(err))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
	}
}

// health reports liveness only.
func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// healthz also checks the database.
func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		a.log.Warn("health check failed", zap.Error(err))
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
