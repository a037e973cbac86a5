package handlers

import (
	"net/http"

	"photosec-backend/internal/middleware"
	"photosec-backend/internal/services"
	"photosec-backend/internal/web"

	"github.com/rs/zerolog/log"
)

// appID identifies the companion app expected to scan the pairing code.
const appID = "photosec_app"

// PairingHandler serves the device pairing page.
type PairingHandler struct {
	pairingService *services.PairingService
	templates      *web.Templates
}

// NewPairingHandler creates a new pairing handler
func NewPairingHandler(pairingService *services.PairingService, templates *web.Templates) *PairingHandler {
	return &PairingHandler{
		pairingService: pairingService,
		templates:      templates,
	}
}

type pairingPageData struct {
	AppID  string
	UserID int64
	Token  string
}

// QRCodePage handles GET /qrcode/. Every visit rotates the pairing token, so
// the rendered code is always the only valid one.
func (h *PairingHandler) QRCodePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	token, err := h.pairingService.IssueOrRotate(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to rotate pairing token")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Info().Int64("user_id", userID).Msg("Pairing token rotated")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pairingPageData{AppID: appID, UserID: userID, Token: token.Token}
	if err := h.templates.Render(w, "qr_code.html", data); err != nil {
		log.Error().Err(err).Msg("Failed to render pairing page")
	}
}
