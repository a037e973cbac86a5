package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"photosec-backend/internal/middleware"
	"photosec-backend/internal/services"
	"photosec-backend/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// GalleryHandler serves the photo list page, batch deletion, the JSON
// listing endpoint and photo content.
type GalleryHandler struct {
	galleryService *services.GalleryService
	templates      *web.Templates
	hub            *services.Hub
}

// NewGalleryHandler creates a new gallery handler
func NewGalleryHandler(galleryService *services.GalleryService, templates *web.Templates, hub *services.Hub) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		templates:      templates,
		hub:            hub,
	}
}

type photoView struct {
	ID         int64
	Title      string
	URL        string
	UploadDate string
}

type filesPageData struct {
	Username string
	Photos   []photoView
}

// FilesPage handles GET /files/
func (h *GalleryHandler) FilesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photos, err := h.galleryService.ListPhotos(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list photos")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := filesPageData{Username: middleware.GetUsername(ctx)}
	for _, p := range photos {
		data.Photos = append(data.Photos, photoView{
			ID:         p.ID,
			Title:      p.Title,
			URL:        "/media/" + strconv.FormatInt(p.ID, 10),
			UploadDate: p.UploadDate.Format("2006-01-02"),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "files_list.html", data); err != nil {
		log.Error().Err(err).Msg("Failed to render files page")
	}
}

// DeleteFiles handles POST /files/. The form carries one field per selected
// photo, keyed by the stringified photo id with value "checked".
func (h *GalleryHandler) DeleteFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := r.ParseForm(); err != nil {
		respondError(w, "invalid form", http.StatusBadRequest)
		return
	}

	var ids []int64
	for field, values := range r.PostForm {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		for _, v := range values {
			if v == "checked" {
				ids = append(ids, id)
				break
			}
		}
	}

	deleted, err := h.galleryService.DeleteChecked(ctx, userID, ids)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to delete photos")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if deleted > 0 {
		log.Info().Int64("user_id", userID).Int("deleted", deleted).Msg("Photos deleted")
		if h.hub.IsOnline(userID) {
			if err := h.hub.NotifyPhotosDeleted(userID, ids); err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("Failed to notify about deletion")
			}
		}
	}

	http.Redirect(w, r, "/files/", http.StatusSeeOther)
}

// RetrievePhotosJSON handles GET /ajax/retrievephotos/. The caller marks the
// request as the XHR flavor explicitly; anything else is not allowed. Zero
// photos yield an empty array rather than an error.
func (h *GalleryHandler) RetrievePhotosJSON(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Requested-With") != "XMLHttpRequest" {
		respondError(w, "not allowed", http.StatusForbidden)
		return
	}

	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photos, err := h.galleryService.ListPhotos(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to list photos")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(services.Summaries(photos))
}

// Media handles GET /media/{photoID}, streaming blob content to its owner.
func (h *GalleryHandler) Media(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photoID, err := strconv.ParseInt(chi.URLParam(r, "photoID"), 10, 64)
	if err != nil {
		respondError(w, "not found", http.StatusNotFound)
		return
	}

	_, content, err := h.galleryService.OpenPhoto(ctx, userID, photoID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, "not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("photo_id", photoID).Msg("Failed to open photo")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	if _, err := io.Copy(w, content); err != nil {
		log.Error().Err(err).Int64("photo_id", photoID).Msg("Failed to stream photo")
	}
}
