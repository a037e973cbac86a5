package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is a message pushed to a user's open browser sessions.
type Event struct {
	Type     string  `json:"type"`
	PhotoID  int64   `json:"photo_id,omitempty"`
	Title    string  `json:"title,omitempty"`
	PhotoURL string  `json:"photo_url,omitempty"`
	PhotoIDs []int64 `json:"photo_ids,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// Hub manages WebSocket connections so gallery pages can refresh live when a
// paired device uploads or the owner deletes photos.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register registers a connection for a user, replacing any existing one.
func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's connection.
func (h *Hub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has an open connection.
func (h *Hub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends an event to a specific user.
func (h *Hub) SendToUser(userID int64, event Event) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// NotifyPhotoUploaded tells the owner's open pages about a new photo.
func (h *Hub) NotifyPhotoUploaded(userID, photoID int64, title string) error {
	return h.SendToUser(userID, Event{
		Type:     "photo_uploaded",
		PhotoID:  photoID,
		Title:    title,
		PhotoURL: fmt.Sprintf("/media/%d", photoID),
	})
}

// NotifyPhotosDeleted tells the owner's open pages about deleted photos.
func (h *Hub) NotifyPhotosDeleted(userID int64, photoIDs []int64) error {
	return h.SendToUser(userID, Event{
		Type:     "photos_deleted",
		PhotoIDs: photoIDs,
	})
}
