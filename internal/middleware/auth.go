package middleware

import (
	"context"
	"net/http"
	"time"

	"photosec-backend/internal/auth"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "photosec_session"

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// SessionVerifier validates session tokens.
type SessionVerifier interface {
	VerifySession(token string) (*auth.SessionClaims, error)
}

// SessionAuth authenticates requests via the session cookie. Unauthenticated
// requests are redirected to the login page when redirectToLogin is set
// (HTML pages) and rejected with 401 otherwise (ajax and API routes).
func SessionAuth(verifier SessionVerifier, redirectToLogin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				reject(w, r, redirectToLogin)
				return
			}

			claims, err := verifier.VerifySession(cookie.Value)
			if err != nil {
				reject(w, r, redirectToLogin)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, redirectToLogin bool) {
	if redirectToLogin {
		http.Redirect(w, r, "/login/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}

// GetUserID extracts the authenticated user ID from context.
func GetUserID(ctx context.Context) int64 {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0
	}
	return id
}

// GetUsername extracts the authenticated username from context.
func GetUsername(ctx context.Context) string {
	name, ok := ctx.Value(usernameKey).(string)
	if !ok {
		return ""
	}
	return name
}

// SetSessionCookie establishes the session on the response.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
