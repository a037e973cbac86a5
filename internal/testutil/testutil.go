// Package testutil provides in-memory implementations of the persistence and
// storage surfaces for tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"photosec-backend/internal/models"
	"photosec-backend/internal/repository"
)

// FakeUserStore is an in-memory UserStore.
type FakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	byName map[string]*models.User
}

// NewFakeUserStore creates an empty user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{
		byID:   make(map[int64]*models.User),
		byName: make(map[string]*models.User),
	}
}

func (s *FakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[user.Username]; ok {
		return repository.ErrDuplicateUsername
	}
	s.nextID++
	user.ID = s.nextID
	copied := *user
	s.byID[user.ID] = &copied
	s.byName[user.Username] = &copied
	return nil
}

func (s *FakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *FakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// FakeTokenStore is an in-memory TokenStore.
type FakeTokenStore struct {
	mu      sync.Mutex
	nextID  int64
	byUser  map[int64]*models.PairingToken
	byValue map[string]*models.PairingToken
}

// NewFakeTokenStore creates an empty token store.
func NewFakeTokenStore() *FakeTokenStore {
	return &FakeTokenStore{
		byUser:  make(map[int64]*models.PairingToken),
		byValue: make(map[string]*models.PairingToken),
	}
}

func (s *FakeTokenStore) Replace(_ context.Context, token *models.PairingToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[token.UserID]; ok {
		delete(s.byValue, old.Token)
		delete(s.byUser, old.UserID)
	}
	s.nextID++
	token.ID = s.nextID
	copied := *token
	s.byUser[token.UserID] = &copied
	s.byValue[token.Token] = &copied
	return nil
}

func (s *FakeTokenStore) GetByToken(_ context.Context, value string) (*models.PairingToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.byValue[value]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *token
	return &copied, nil
}

// FakePhotoStore is an in-memory PhotoStore.
type FakePhotoStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Photo
}

// NewFakePhotoStore creates an empty photo store.
func NewFakePhotoStore() *FakePhotoStore {
	return &FakePhotoStore{byID: make(map[int64]*models.Photo)}
}

func (s *FakePhotoStore) Create(_ context.Context, photo *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	photo.ID = s.nextID
	copied := *photo
	s.byID[photo.ID] = &copied
	return nil
}

func (s *FakePhotoStore) GetByID(_ context.Context, id int64) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	photo, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *photo
	return &copied, nil
}

func (s *FakePhotoStore) ListByUser(_ context.Context, userID int64) ([]*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var photos []*models.Photo
	for _, p := range s.byID {
		if p.UserID == userID {
			copied := *p
			photos = append(photos, &copied)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].UploadDate.Equal(photos[j].UploadDate) {
			return photos[i].ID < photos[j].ID
		}
		return photos[i].UploadDate.Before(photos[j].UploadDate)
	})
	return photos, nil
}

func (s *FakePhotoStore) Delete(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	photo, ok := s.byID[id]
	if !ok || photo.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// Count reports the number of photos owned by a user.
func (s *FakePhotoStore) Count(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, p := range s.byID {
		if p.UserID == userID {
			count++
		}
	}
	return count
}

// FakeBlobStore is an in-memory blob store. Keys listed in FailDelete make
// Delete fail, for exercising the fail-closed deletion path.
type FakeBlobStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	FailDelete map[string]bool
}

// NewFakeBlobStore creates an empty blob store.
func NewFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{
		blobs:      make(map[string][]byte),
		FailDelete: make(map[string]bool),
	}
}

func (s *FakeBlobStore) Save(_ context.Context, key string, data io.Reader) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = content
	return nil
}

func (s *FakeBlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *FakeBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete[key] {
		return fmt.Errorf("failed to delete blob %s", key)
	}
	if _, ok := s.blobs[key]; !ok {
		return fmt.Errorf("blob %s not found", key)
	}
	delete(s.blobs, key)
	return nil
}

// Has reports whether a blob exists.
func (s *FakeBlobStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[key]
	return ok
}

// Len reports the number of stored blobs.
func (s *FakeBlobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
