package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photosec-backend/internal/auth"

	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	claims *auth.SessionClaims
	err    error
}

func (s *stubVerifier) VerifySession(string) (*auth.SessionClaims, error) {
	return s.claims, s.err
}

func protected(verifier SessionVerifier, redirect bool) (http.Handler, *int64) {
	var seen int64
	handler := SessionAuth(verifier, redirect)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func TestSessionAuthPassesClaims(t *testing.T) {
	verifier := &stubVerifier{claims: &auth.SessionClaims{UserID: 7, Username: "alice"}}
	handler, seen := protected(verifier, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), *seen)
}

func TestSessionAuthMissingCookieRedirects(t *testing.T) {
	handler, _ := protected(&stubVerifier{}, true)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/", nil))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login/", rec.Header().Get("Location"))
}

func TestSessionAuthMissingCookieAPIRejects(t *testing.T) {
	handler, _ := protected(&stubVerifier{}, false)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ajax/retrievephotos/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: http.ErrNoCookie}
	handler, _ := protected(verifier, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCookieHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "token-value", time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, SessionCookieName, cookies[0].Name)
	require.Equal(t, "token-value", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	ClearSessionCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
