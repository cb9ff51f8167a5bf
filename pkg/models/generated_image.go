package models

import (
	"time"

	"github.com/google/uuid"
)

// Image composition status values.
const (
	ImageStatusPending  = "pending"
	ImageStatusComplete = "complete"
	ImageStatusFailed   = "failed"
)

// GeneratedImage is a composed memorial image artifact (portrait, epitaph
// quote, dates) produced by the composition collaborator for one entry.
type GeneratedImage struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	DeceasedID uuid.UUID `json:"deceased_id"`
	EpitaphID  string    `json:"epitaph_id"`
	Status     string    `json:"status"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsPending reports whether the composition is still in flight.
func (g *GeneratedImage) IsPending() bool {
	return g.Status == ImageStatusPending
}
