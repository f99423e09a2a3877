// ABOUTME: Session authentication for the admin UI.
// ABOUTME: Checks the session cookie or Bearer token and puts the admin's email on the request context.

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/2389/panel/internal/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// CookieName holds the session token
const CookieName = "panel_session"

// Guard protects admin routes. A Guard without credentials lets everyone in as "default".
type Guard struct {
	Credentials *Credentials
	Sessions    *Sessions
	LoginPath   string
}

// Enabled reports whether a login is required
func (g *Guard) Enabled() bool {
	return g != nil && g.Credentials != nil && g.Credentials.Email != ""
}

// Middleware rejects requests without a valid session. Pages redirect to the
// login path; API requests get a JSON 401.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := g.Sessions.Lookup(extractToken(r))
		if !ok {
			if wantsJSON(r) {
				apierrors.Unauthorized(w, "Login required")
				return
			}
			http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login checks credentials and starts a session, setting its cookie on w
func (g *Guard) Login(w http.ResponseWriter, email, password string) bool {
	if !g.Enabled() || !g.Credentials.Check(email, password) {
		return false
	}
	token := g.Sessions.Create(email)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(g.Sessions.TTL()),
	})
	return true
}

// Logout ends the request's session and clears its cookie
func (g *Guard) Logout(w http.ResponseWriter, r *http.Request) {
	if g.Sessions != nil {
		g.Sessions.Delete(extractToken(r))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// UserFromContext returns the signed-in admin, or "default" when auth is off
func UserFromContext(ctx context.Context) string {
	user, ok := ctx.Value(userContextKey).(string)
	if !ok || user == "" {
		return "default"
	}
	return user
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
