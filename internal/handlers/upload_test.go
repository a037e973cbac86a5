package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var tokenAttr = regexp.MustCompile(`data-token="([^"]+)"`)

func (f *fixture) uploadWithCookie(t *testing.T, cookie *http.Cookie, title string, content []byte, includeFile bool) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, title, content, includeFile)
	req := httptest.NewRequest(http.MethodPost, "/photoupload/", body)
	req.Header.Set("Content-Type", contentType)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return f.do(req)
}

func TestSessionUpload(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	rec := f.uploadWithCookie(t, cookie, "Trip", []byte("jpeg bytes"), true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.AddCookie(cookie)
	rec = f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Trip")
}

func TestUploadMissingFileIsEmptyContent(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	rec := f.uploadWithCookie(t, cookie, "Trip", nil, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "empty content")
	require.Equal(t, 0, f.photos.Count(1))
}

func TestUploadEmptyFileIsEmptyContent(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	rec := f.uploadWithCookie(t, cookie, "Trip", []byte{}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "empty content")
	require.Equal(t, 0, f.photos.Count(1))
	require.Equal(t, 0, f.blobs.Len())
}

func TestUploadMissingTitle(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	rec := f.uploadWithCookie(t, cookie, "", []byte("jpeg bytes"), true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, f.photos.Count(1))
}

func TestTokenUploadRejectsMismatchedUser(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	f.register(t, "bob", "pw2")

	token, err := f.pairingService.IssueOrRotate(context.Background(), 1)
	require.NoError(t, err)

	// Alice's token, Bob's id in the path.
	body, contentType := multipartUpload(t, "Trip", []byte("jpeg bytes"), true)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/photoupload/%d/%s", 2, token.Token), body)
	req.Header.Set("Content-Type", contentType)

	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 0, f.photos.Count(1))
	require.Equal(t, 0, f.photos.Count(2))
}

func TestTokenUploadUnknownToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")

	body, contentType := multipartUpload(t, "Trip", []byte("jpeg bytes"), true)
	req := httptest.NewRequest(http.MethodPost, "/photoupload/1/not-a-token", body)
	req.Header.Set("Content-Type", contentType)

	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 0, f.photos.Count(1))
}

// Full pairing flow: register, fetch the pairing page, log out, upload from
// the device with the token, then find the photo in the listing.
func TestPairedDeviceUploadScenario(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	req := httptest.NewRequest(http.MethodGet, "/qrcode/", nil)
	req.AddCookie(cookie)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	match := tokenAttr.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "pairing page should embed the token")
	token := match[1]

	// Session ends; the device only holds the token.
	f.do(httptest.NewRequest(http.MethodGet, "/logout/", nil))

	body, contentType := multipartUpload(t, "Trip", []byte("jpeg bytes"), true)
	uploadReq := httptest.NewRequest(http.MethodPost, "/photoupload/1/"+token, body)
	uploadReq.Header.Set("Content-Type", contentType)
	rec = f.do(uploadReq)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())

	listReq := httptest.NewRequest(http.MethodGet, "/ajax/retrievephotos/", nil)
	listReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	listReq.AddCookie(cookie)
	rec = f.do(listReq)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"Trip"`)
}

func TestQRCodePageRotatesToken(t *testing.T) {
	f := newFixture(t)
	cookie := f.register(t, "alice", "pw1")

	var tokens []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/qrcode/", nil)
		req.AddCookie(cookie)
		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		match := tokenAttr.FindStringSubmatch(rec.Body.String())
		require.Len(t, match, 2)
		tokens = append(tokens, match[1])
	}
	require.NotEqual(t, tokens[0], tokens[1])

	// The first token was invalidated by the second visit.
	body, contentType := multipartUpload(t, "Trip", []byte("jpeg bytes"), true)
	req := httptest.NewRequest(http.MethodPost, "/photoupload/1/"+tokens[0], body)
	req.Header.Set("Content-Type", contentType)
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
