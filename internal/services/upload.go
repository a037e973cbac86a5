package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"photosec-backend/internal/models"
	"photosec-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PhotoStore is the persistence surface for photo records.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Photo, error)
	Delete(ctx context.Context, id, userID int64) error
}

// UploadService persists uploaded photos: blob first, record second.
type UploadService struct {
	photos PhotoStore
	blobs  storage.Store
}

// NewUploadService creates a new upload service
func NewUploadService(photos PhotoStore, blobs storage.Store) *UploadService {
	return &UploadService{
		photos: photos,
		blobs:  blobs,
	}
}

// Upload stores the file content and creates the owning record. Empty content
// fails with ErrEmptyContent before anything is persisted.
func (s *UploadService) Upload(ctx context.Context, userID int64, title string, file io.Reader) (*models.Photo, error) {
	if file == nil {
		return nil, ErrEmptyContent
	}

	buffered := bufio.NewReader(file)
	if _, err := buffered.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyContent
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	key := uuid.New().String() + ".jpg"
	if err := s.blobs.Save(ctx, key, buffered); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	photo := &models.Photo{
		UserID:     userID,
		Title:      title,
		FileKey:    key,
		UploadDate: time.Now(),
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("file_key", key).Msg("Failed to clean up blob after record failure")
		}
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}

	return photo, nil
}
