package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"photosec-backend/internal/middleware"
	"photosec-backend/internal/services"
	"photosec-backend/internal/testutil"
	"photosec-backend/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users  *testutil.FakeUserStore
	tokens *testutil.FakeTokenStore
	photos *testutil.FakePhotoStore
	blobs  *testutil.FakeBlobStore

	authService    *services.AuthService
	pairingService *services.PairingService

	router chi.Router
}

// newFixture wires the full handler stack over in-memory stores, with the
// same routes the server mounts.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:  testutil.NewFakeUserStore(),
		tokens: testutil.NewFakeTokenStore(),
		photos: testutil.NewFakePhotoStore(),
		blobs:  testutil.NewFakeBlobStore(),
	}

	f.authService = services.NewAuthService(f.users, "test-secret", time.Hour)
	pairingService, err := services.NewPairingService(f.tokens, f.users)
	require.NoError(t, err)
	f.pairingService = pairingService

	uploadService := services.NewUploadService(f.photos, f.blobs)
	galleryService := services.NewGalleryService(f.photos, f.blobs)
	hub := services.NewHub()

	templates, err := web.NewTemplates()
	require.NoError(t, err)

	authHandler := NewAuthHandler(f.authService, templates)
	pairingHandler := NewPairingHandler(pairingService, templates)
	uploadHandler := NewUploadHandler(uploadService, pairingService, hub)
	galleryHandler := NewGalleryHandler(galleryService, templates, hub)

	r := chi.NewRouter()
	r.Get("/login/", authHandler.LoginPage)
	r.Post("/login/", authHandler.Login)
	r.Get("/createuser/", authHandler.CreateUserPage)
	r.Post("/createuser/", authHandler.CreateUser)
	r.Get("/logout/", authHandler.Logout)
	r.Post("/photoupload/{user}/{token}", uploadHandler.UploadToken)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(f.authService, true))
		r.Get("/files/", galleryHandler.FilesPage)
		r.Post("/files/", galleryHandler.DeleteFiles)
		r.Get("/qrcode/", pairingHandler.QRCodePage)
		r.Get("/media/{photoID}", galleryHandler.Media)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(f.authService, false))
		r.Post("/photoupload/", uploadHandler.UploadSession)
		r.Get("/ajax/retrievephotos/", galleryHandler.RetrievePhotosJSON)
	})

	f.router = r
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the handler and returns the session cookie.
func (f *fixture) register(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/createuser/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := f.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	return cookie
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			found = c
		}
	}
	return found
}

// multipartUpload builds a multipart body with the given file content and title.
func multipartUpload(t *testing.T, title string, content []byte, includeFile bool) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if includeFile {
		part, err := writer.CreateFormFile("file", "a.jpg")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.WriteField("title", title))
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}
