package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"photosec-backend/internal/middleware"
	"photosec-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadMemory = 32 << 20

// UploadHandler accepts photo uploads from the browser session and from
// paired devices authenticating with a token.
type UploadHandler struct {
	uploadService  *services.UploadService
	pairingService *services.PairingService
	hub            *services.Hub
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService, pairingService *services.PairingService, hub *services.Hub) *UploadHandler {
	return &UploadHandler{
		uploadService:  uploadService,
		pairingService: pairingService,
		hub:            hub,
	}
}

// UploadSession handles POST /photoupload/ for a logged-in browser session.
func (h *UploadHandler) UploadSession(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	h.upload(w, r, userID)
}

// UploadToken handles POST /photoupload/{user}/{token}. The token must be
// bound to exactly the user named in the path.
func (h *UploadHandler) UploadToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "user"), 10, 64)
	if err != nil {
		respondError(w, "authentication failure", http.StatusUnauthorized)
		return
	}
	tokenValue := chi.URLParam(r, "token")

	user, err := h.pairingService.Authorize(ctx, targetUserID, tokenValue)
	if err != nil {
		if errors.Is(err, services.ErrAuthenticationFailure) {
			respondError(w, "authentication failure", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Int64("target_user_id", targetUserID).Msg("Token authorization failed")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.upload(w, r, user.ID)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request, userID int64) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "empty content", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, "empty content", http.StatusBadRequest)
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		respondError(w, "title is required", http.StatusBadRequest)
		return
	}

	photo, err := h.uploadService.Upload(ctx, userID, title, file)
	if err != nil {
		if errors.Is(err, services.ErrEmptyContent) {
			respondError(w, "empty content", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int64("user_id", userID).Str("title", title).Msg("Upload failed")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Info().
		Int64("user_id", userID).
		Int64("photo_id", photo.ID).
		Str("title", photo.Title).
		Msg("Photo uploaded")

	if h.hub.IsOnline(userID) {
		if err := h.hub.NotifyPhotoUploaded(userID, photo.ID, photo.Title); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to notify about upload")
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
