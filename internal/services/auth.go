package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photosec-backend/internal/auth"
	"photosec-backend/internal/models"
	"photosec-backend/internal/repository"
)

// UserStore is the persistence surface the services need for users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	users      UserStore
	secret     string
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, secret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account. The existing account is left untouched
// when the username is already taken.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and returns the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// SessionToken signs a session token for the user.
func (s *AuthService) SessionToken(user *models.User) (string, error) {
	return auth.GenerateSessionToken(user.ID, user.Username, s.secret, s.sessionTTL)
}

// VerifySession validates a session token and returns its claims.
func (s *AuthService) VerifySession(token string) (*auth.SessionClaims, error) {
	return auth.VerifySessionToken(token, s.secret)
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
