package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"photosec-backend/internal/models"
	"photosec-backend/internal/repository"
	"photosec-backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// PhotoSummary is the JSON shape served by the ajax listing endpoint.
type PhotoSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Photo string `json:"photo"`
}

// GalleryService lists and deletes a user's photos.
type GalleryService struct {
	photos PhotoStore
	blobs  storage.Store
}

// NewGalleryService creates a new gallery service
func NewGalleryService(photos PhotoStore, blobs storage.Store) *GalleryService {
	return &GalleryService{
		photos: photos,
		blobs:  blobs,
	}
}

// ListPhotos returns all photos owned by the user, oldest first.
func (s *GalleryService) ListPhotos(ctx context.Context, userID int64) ([]*models.Photo, error) {
	photos, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// Summaries converts photo records to their JSON listing shape. The photo
// reference is the media URL, not the raw storage key.
func Summaries(photos []*models.Photo) []PhotoSummary {
	summaries := make([]PhotoSummary, 0, len(photos))
	for _, p := range photos {
		summaries = append(summaries, PhotoSummary{
			ID:    p.ID,
			Title: p.Title,
			Photo: fmt.Sprintf("/media/%d", p.ID),
		})
	}
	return summaries
}

// DeleteChecked deletes the user's photos whose IDs appear in the selection.
// IDs of photos owned by other users are ignored. For each photo the blob is
// removed first and the record is only deleted once the blob removal
// succeeded. Returns the number of photos deleted.
func (s *GalleryService) DeleteChecked(ctx context.Context, userID int64, ids []int64) (int, error) {
	deleted := 0
	for _, id := range ids {
		photo, err := s.photos.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return deleted, fmt.Errorf("failed to look up photo %d: %w", id, err)
		}
		if photo.UserID != userID {
			continue
		}

		if err := s.blobs.Delete(ctx, photo.FileKey); err != nil {
			log.Error().Err(err).Int64("photo_id", id).Str("file_key", photo.FileKey).
				Msg("Failed to delete blob, keeping record")
			continue
		}

		if err := s.photos.Delete(ctx, id, userID); err != nil {
			log.Error().Err(err).Int64("photo_id", id).Msg("Failed to delete photo record")
			continue
		}
		deleted++
	}
	return deleted, nil
}

// OpenPhoto opens the blob content of one of the user's photos. Photos owned
// by other users are reported as not found.
func (s *GalleryService) OpenPhoto(ctx context.Context, userID, photoID int64) (*models.Photo, io.ReadCloser, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to look up photo: %w", err)
	}
	if photo.UserID != userID {
		return nil, nil, ErrNotFound
	}

	content, err := s.blobs.Open(ctx, photo.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return photo, content, nil
}
