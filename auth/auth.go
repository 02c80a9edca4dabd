// Package auth owns the session cookie and the server side session records.
//
// The cookie carries an opaque, HMAC-signed token. The token resolves to a
// user id through a Store; nothing else (role, company) is kept in the
// session, so authorization always re-reads the user.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
)

// Default lifetimes: sessions last 30 days and are renewed once older than
// a day.
const (
	DefaultTTL        = 30 * 24 * time.Hour
	DefaultRenewAfter = 24 * time.Hour
)

// ErrSessionNotFound is returned by stores for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

// Session is a stored session.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	IPAddress string
	UserAgent string
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Touch(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context, token string) error
}

// Options configures a Manager.
type Options struct {
	Secret     string
	TTL        time.Duration
	RenewAfter time.Duration
	Secure     bool
}

// Manager issues and validates sessions.
type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	renewAfter time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(store Store, opts Options) *Manager {
	if opts.Secret == "" {
		opts.Secret = "devsessionsecret"
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.RenewAfter <= 0 {
		opts.RenewAfter = DefaultRenewAfter
	}
	return &Manager{
		store:      store,
		secret:     []byte(opts.Secret),
		ttl:        opts.TTL,
		renewAfter: opts.RenewAfter,
		secure:     opts.Secure,
		now:        time.Now,
	}
}

// SignIn creates a session for userID and sets the cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	token, err := newToken()
	if err != nil {
		return err
	}
	now := m.now()
	s := Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := m.store.Create(r.Context(), s); err != nil {
		return err
	}
	m.setCookie(w, token, s.ExpiresAt)
	return nil
}

// SignOut deletes the current session, if any, and clears the cookie.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	ClearSession(w)
	token, ok := m.parseCookie(r)
	if !ok {
		return nil
	}
	return m.store.Delete(r.Context(), token)
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// Middleware attaches the session's user id to the request context if the
// cookie is valid. Stale or forged cookies are cleared.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.parseCookie(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		s, err := m.store.Get(r.Context(), token)
		now := m.now()
		if err != nil || !s.ExpiresAt.After(now) {
			ClearSession(w)
			next.ServeHTTP(w, r)
			return
		}
		// sliding renewal
		if s.ExpiresAt.Sub(now) < m.ttl-m.renewAfter {
			expires := now.Add(m.ttl)
			if err := m.store.Touch(r.Context(), token, expires); err == nil {
				m.setCookie(w, token, expires)
			}
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), s.UserID)))
	})
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDCtxKey).(string)
	return id, ok && id != ""
}

func (m *Manager) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token + "." + m.sign(token),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func (m *Manager) sign(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// parseCookie validates the cookie signature and returns the token.
func (m *Manager) parseCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	token, sig, ok := strings.Cut(c.Value, ".")
	if !ok || token == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(token))) {
		return "", false
	}
	return token, true
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
