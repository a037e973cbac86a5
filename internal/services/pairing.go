package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photosec-backend/internal/models"
	"photosec-backend/internal/repository"

	"github.com/jaevor/go-nanoid"
)

const tokenLength = 32

// TokenStore is the persistence surface for pairing tokens.
type TokenStore interface {
	Replace(ctx context.Context, token *models.PairingToken) error
	GetByToken(ctx context.Context, value string) (*models.PairingToken, error)
}

// PairingService issues device-pairing tokens and authorizes token uploads.
type PairingService struct {
	tokens   TokenStore
	users    UserStore
	newToken func() string
}

// NewPairingService creates a new pairing service
func NewPairingService(tokens TokenStore, users UserStore) (*PairingService, error) {
	gen, err := nanoid.Standard(tokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token generator: %w", err)
	}
	return &PairingService{
		tokens:   tokens,
		users:    users,
		newToken: gen,
	}, nil
}

// IssueOrRotate replaces any existing token for the user with a fresh one.
// Rotation is unconditional: every call yields a new value and the previous
// value stops authenticating.
func (s *PairingService) IssueOrRotate(ctx context.Context, userID int64) (*models.PairingToken, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token := &models.PairingToken{
		UserID:    userID,
		Token:     s.newToken(),
		CreatedAt: time.Now(),
	}

	if err := s.tokens.Replace(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to rotate token: %w", err)
	}

	return token, nil
}

// Authorize resolves a pairing token for an upload targeting targetUserID.
// The token must exist and be bound to exactly that user.
func (s *PairingService) Authorize(ctx context.Context, targetUserID int64, value string) (*models.User, error) {
	token, err := s.tokens.GetByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailure
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}

	if token.UserID != targetUserID {
		return nil, ErrAuthenticationFailure
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailure
		}
		return nil, fmt.Errorf("failed to look up token owner: %w", err)
	}

	return user, nil
}
