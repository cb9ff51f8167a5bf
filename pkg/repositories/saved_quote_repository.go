package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finalspaces/finalspaces-engine/pkg/database"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// SavedQuoteRepository defines the interface for saved quote data access.
// The natural key is (user, quote, author); save, remove, and existence
// checks all key on that pair rather than the surrogate id.
type SavedQuoteRepository interface {
	Save(ctx context.Context, quote *models.SavedQuote) error
	Remove(ctx context.Context, userID, quote, author string) error
	Exists(ctx context.Context, userID, quote, author string) (bool, error)
	GetByUser(ctx context.Context, userID string) ([]*models.SavedQuote, error)
}

// savedQuoteRepository implements SavedQuoteRepository using PostgreSQL.
type savedQuoteRepository struct {
	db *database.DB
}

// NewSavedQuoteRepository creates a new saved quote repository.
func NewSavedQuoteRepository(db *database.DB) SavedQuoteRepository {
	return &savedQuoteRepository{db: db}
}

// Save inserts a saved quote. Saving an already-saved (quote, author) pair
// is a no-op so the externally visible "is saved" state never duplicates.
func (r *savedQuoteRepository) Save(ctx context.Context, quote *models.SavedQuote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	quote.CreatedAt = time.Now()

	query := `
		INSERT INTO saved_quotes (id, user_id, quote, author, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, quote, author) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		quote.ID,
		quote.UserID,
		quote.Quote,
		quote.Author,
		quote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}

	return nil
}

// Remove deletes the saved quote matching (user, quote, author).
// Removing a quote that was never saved is not an error.
func (r *savedQuoteRepository) Remove(ctx context.Context, userID, quote, author string) error {
	query := `DELETE FROM saved_quotes WHERE user_id = $1 AND quote = $2 AND author = $3`

	_, err := r.db.Exec(ctx, query, userID, quote, author)
	if err != nil {
		return fmt.Errorf("failed to remove quote: %w", err)
	}

	return nil
}

// Exists reports whether (user, quote, author) is saved.
func (r *savedQuoteRepository) Exists(ctx context.Context, userID, quote, author string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM saved_quotes WHERE user_id = $1 AND quote = $2 AND author = $3)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, quote, author).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check saved quote: %w", err)
	}

	return exists, nil
}

// GetByUser retrieves all saved quotes for userID, newest-created first.
func (r *savedQuoteRepository) GetByUser(ctx context.Context, userID string) ([]*models.SavedQuote, error) {
	query := `
		SELECT id, user_id, quote, author, created_at
		FROM saved_quotes
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.SavedQuote
	for rows.Next() {
		var q models.SavedQuote
		if err := rows.Scan(&q.ID, &q.UserID, &q.Quote, &q.Author, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved quote: %w", err)
		}
		quotes = append(quotes, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read saved quotes: %w", err)
	}

	return quotes, nil
}

// Ensure savedQuoteRepository implements SavedQuoteRepository at compile time.
var _ SavedQuoteRepository = (*savedQuoteRepository)(nil)
