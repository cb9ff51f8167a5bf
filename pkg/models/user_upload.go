package models

import (
	"time"

	"github.com/google/uuid"
)

// UserUpload records a file delivered through the upload pipeline.
// The row is deleted when the underlying object is deleted, keeping the
// app's record in sync with the object store.
type UserUpload struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `json:"created_at"`
}
