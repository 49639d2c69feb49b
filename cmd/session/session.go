package session

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
)

const cookieName = "jwt"

// Identity names the admin a session belongs to.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Actor is the request-scoped identity: an admin, the root operator, both,
// or nobody.
type Actor struct {
	Admin *Identity `json:"admin,omitempty"`
	Root  bool      `json:"root,omitempty"`
}

func (a Actor) IsAdmin() bool { return a.Admin != nil && a.Admin.ID != "" }

type ctxKey struct{}

// WithActor stores a in ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor loaded for the request, or the anonymous
// actor.
func FromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(ctxKey{}).(Actor)
	return a
}

// Manager signs and reads the session cookie.
type Manager struct {
	auth     *jwtauth.JWTAuth
	lifetime time.Duration
}

func NewManager(secret string, lifetime time.Duration) *Manager {
	return &Manager{
		auth:     jwtauth.New("HS256", []byte(secret), nil),
		lifetime: lifetime,
	}
}

// Load verifies the session cookie and places the actor in the request
// context. A missing, invalid or expired token yields the anonymous actor.
func (m *Manager) Load(next http.Handler) http.Handler {
	load := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var actor Actor
		if token, claims, err := jwtauth.FromContext(r.Context()); err == nil && token != nil {
			actor = actorFromClaims(claims)
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
	return jwtauth.Verify(m.auth, jwtauth.TokenFromCookie)(load)
}

func actorFromClaims(claims map[string]interface{}) Actor {
	var a Actor
	if id, _ := claims["admin_id"].(string); id != "" {
		name, _ := claims["admin_name"].(string)
		a.Admin = &Identity{ID: id, Name: name}
	}
	a.Root, _ = claims["root"].(bool)
	return a
}

// Issue replaces the session cookie with one carrying a.
func (m *Manager) Issue(w http.ResponseWriter, a Actor) error {
	claims := map[string]interface{}{
		"root": a.Root,
		"exp":  jwtauth.ExpireIn(m.lifetime),
	}
	if a.Admin != nil {
		claims["admin_id"] = a.Admin.ID
		claims["admin_name"] = a.Admin.Name
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(m.lifetime),
	})
	return nil
}

// Clear removes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

const signInRequired = "Silakan masuk terlebih dahulu."

// RequireAdmin redirects anonymous requests to the admin sign-in page.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return m.require("/signin", Actor.IsAdmin, next)
}

// RequireRoot redirects requests without a root session to the root
// sign-in page.
func (m *Manager) RequireRoot(next http.Handler) http.Handler {
	return m.require("/root/signin", func(a Actor) bool { return a.Root }, next)
}

func (m *Manager) require(signin string, allowed func(Actor) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowed(FromContext(r.Context())) {
			_ = m.SetFlash(w, KeyAuth, signInRequired)
			http.Redirect(w, r, signin, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
