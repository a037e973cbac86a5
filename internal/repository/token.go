package repository

import (
	"context"
	"errors"
	"fmt"

	"photosec-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepository handles database operations for pairing tokens
type TokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository creates a new pairing token repository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: db}
}

// Replace deletes any existing token for the user and inserts the new one in a
// single transaction. The UNIQUE constraint on user_id keeps the one-token
// invariant even if two rotations race.
func (r *TokenRepository) Replace(ctx context.Context, token *models.PairingToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM pairing_tokens WHERE user_id = $1`, token.UserID); err != nil {
		return fmt.Errorf("failed to delete old token: %w", err)
	}

	query := `
		INSERT INTO pairing_tokens (user_id, token, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, token.UserID, token.Token, token.CreatedAt).Scan(&token.ID); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit token rotation: %w", err)
	}
	return nil
}

// GetByToken retrieves a pairing token by its opaque value
func (r *TokenRepository) GetByToken(ctx context.Context, value string) (*models.PairingToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM pairing_tokens
		WHERE token = $1
	`
	var token models.PairingToken
	err := r.db.QueryRow(ctx, query, value).Scan(
		&token.ID, &token.UserID, &token.Token, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}
