package handlers

import (
	"errors"
	"net/http"

	"photosec-backend/internal/middleware"
	"photosec-backend/internal/models"
	"photosec-backend/internal/services"
	"photosec-backend/internal/web"

	"github.com/rs/zerolog/log"
)

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	authService *services.AuthService
	templates   *web.Templates
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, templates *web.Templates) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		templates:   templates,
	}
}

type authPageData struct {
	Username string
	Error    string
}

// LoginPage handles GET /login/
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "login.html", authPageData{})
}

// Login handles POST /login/
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			w.WriteHeader(http.StatusUnauthorized)
			h.renderPage(w, "login.html", authPageData{Username: username, Error: "Invalid username or password"})
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Login failed")
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := h.establishSession(w, user.ID, user.Username); err != nil {
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User logged in")
	http.Redirect(w, r, "/files/", http.StatusSeeOther)
}

// CreateUserPage handles GET /createuser/
func (h *AuthHandler) CreateUserPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "create_user.html", authPageData{})
}

// CreateUser handles POST /createuser/. Any prior session is cleared before
// the attempt; a duplicate username leaves the requester without a session.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)

	if err := r.ParseForm(); err != nil {
		respondError(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.authService.Register(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateUsername):
			w.WriteHeader(http.StatusConflict)
			h.renderPage(w, "create_user.html", authPageData{Username: username, Error: "Username already taken"})
		case errors.Is(err, services.ErrInvalidCredentials):
			w.WriteHeader(http.StatusBadRequest)
			h.renderPage(w, "create_user.html", authPageData{Error: "Username and password are required"})
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed to create user")
			respondError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	if err := h.establishSession(w, user.ID, user.Username); err != nil {
		respondError(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User created")
	http.Redirect(w, r, "/files/", http.StatusSeeOther)
}

// Logout handles GET /logout/. Clearing the session is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login/", http.StatusSeeOther)
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, userID int64, username string) error {
	token, err := h.authService.SessionToken(&models.User{ID: userID, Username: username})
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to sign session token")
		return err
	}
	middleware.SetSessionCookie(w, token, h.authService.SessionTTL())
	return nil
}

func (h *AuthHandler) renderPage(w http.ResponseWriter, name string, data authPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
	}
}
