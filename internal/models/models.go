package models

import "time"

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PairingToken is the opaque credential a secondary device uses to upload
// photos on behalf of its owner. A user holds at most one at a time.
type PairingToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Photo represents an uploaded photo. The binary content lives in the blob
// store under FileKey; the record only carries the reference.
type Photo struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	FileKey    string    `json:"file_key"`
	UploadDate time.Time `json:"upload_date"`
}
