package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
	"github.com/finalspaces/finalspaces-engine/pkg/viewcache"
)

// SavedQuotes bundles the normalized saved quotes with a lookup map keyed
// "quote|author" so callers can check saved state in O(1).
type SavedQuotes struct {
	Quotes []models.UnifiedQuote `json:"quotes"`
	Lookup map[string]bool       `json:"lookup"`
}

// QuoteService defines the interface for saved quote operations.
type QuoteService interface {
	// Save bookmarks a (quote, author) pair. Saving twice is a no-op.
	Save(ctx context.Context, userID, quote, author string) error

	// Remove deletes a bookmarked pair.
	Remove(ctx context.Context, userID, quote, author string) error

	// IsSaved reports whether the pair is bookmarked.
	IsSaved(ctx context.Context, userID, quote, author string) (bool, error)

	// GetSaved returns the user's saved quotes in normalized form.
	GetSaved(ctx context.Context, userID string) (*SavedQuotes, error)
}

type quoteService struct {
	quoteRepo repositories.SavedQuoteRepository
	views     *viewcache.Cache
	logger    *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(quoteRepo repositories.SavedQuoteRepository, views *viewcache.Cache, logger *zap.Logger) QuoteService {
	return &quoteService{
		quoteRepo: quoteRepo,
		views:     views,
		logger:    logger,
	}
}

// Save bookmarks a (quote, author) pair.
func (s *quoteService) Save(ctx context.Context, userID, quote, author string) error {
	if quote == "" {
		return apperrors.NewValidationError(map[string]string{"quote": "Quote is required"})
	}

	if err := s.quoteRepo.Save(ctx, &models.SavedQuote{
		UserID: userID,
		Quote:  quote,
		Author: author,
	}); err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}

	s.forgetQuoteReads(ctx)
	s.views.Invalidate(ctx, viewcache.TagSavedQuotes(userID))

	return nil
}

// Remove deletes a bookmarked pair.
func (s *quoteService) Remove(ctx context.Context, userID, quote, author string) error {
	if quote == "" {
		return apperrors.NewValidationError(map[string]string{"quote": "Quote is required"})
	}

	if err := s.quoteRepo.Remove(ctx, userID, quote, author); err != nil {
		return fmt.Errorf("failed to remove quote: %w", err)
	}

	s.forgetQuoteReads(ctx)
	s.views.Invalidate(ctx, viewcache.TagSavedQuotes(userID))

	return nil
}

// IsSaved reports whether the pair is bookmarked, memoized per request.
func (s *quoteService) IsSaved(ctx context.Context, userID, quote, author string) (bool, error) {
	key := requestcache.Key("isQuoteSaved", userID, models.QuoteKey(quote, author))
	return requestcache.Memo(ctx, key, func() (bool, error) {
		return s.quoteRepo.Exists(ctx, userID, quote, author)
	})
}

// GetSaved returns the user's saved quotes in normalized form, memoized
// per request.
func (s *quoteService) GetSaved(ctx context.Context, userID string) (*SavedQuotes, error) {
	return requestcache.Memo(ctx, requestcache.Key("getUserSavedQuotes", userID), func() (*SavedQuotes, error) {
		saved, err := s.quoteRepo.GetByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list saved quotes: %w", err)
		}

		result := &SavedQuotes{
			Quotes: make([]models.UnifiedQuote, 0, len(saved)),
			Lookup: make(map[string]bool, len(saved)),
		}
		for _, q := range saved {
			result.Quotes = append(result.Quotes, models.UnifiedQuote{
				Quote:  q.Quote,
				Author: q.Author,
				Source: "Saved Quote",
				Length: len(q.Quote),
			})
			result.Lookup[q.Key()] = true
		}
		return result, nil
	})
}

// forgetQuoteReads drops request-local memoized quote reads so a check in
// the same request observes the mutation.
func (s *quoteService) forgetQuoteReads(ctx context.Context) {
	if cache, ok := requestcache.FromContext(ctx); ok {
		cache.Forget("isQuoteSaved")
		cache.Forget("getUserSavedQuotes")
	}
}

// Ensure quoteService implements QuoteService at compile time.
var _ QuoteService = (*quoteService)(nil)
