package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedQuote is a quote a user bookmarked for use as an epitaph.
// The natural key is (user, quote, author); the surrogate id exists only
// for storage. Existence checks and removal must key on the pair.
type SavedQuote struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Quote     string    `json:"quote"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Key returns the lookup key for the (quote, author) pair.
func (s *SavedQuote) Key() string {
	return QuoteKey(s.Quote, s.Author)
}

// QuoteKey builds the canonical "quote|author" lookup key.
func QuoteKey(quote, author string) string {
	return quote + "|" + author
}

// UnifiedQuote is the normalized quote shape consumed by quote cards,
// regardless of whether the quote came from search or from saved quotes.
type UnifiedQuote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Source string `json:"source"`
	Length int    `json:"length"`
}
