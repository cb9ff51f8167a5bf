// Package services contains the business logic for finalspaces-engine.
// Services validate input, call repositories and collaborators, and keep
// the request-scoped and view caches coherent across mutations.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
	"github.com/finalspaces/finalspaces-engine/pkg/viewcache"
)

// EntryInput carries the fields of a memorial entry form submission.
type EntryInput struct {
	Name          string `json:"name"`
	BirthDate     string `json:"birth_date"`
	DeathDate     string `json:"death_date"`
	BirthLocation string `json:"birth_location"`
	Image         string `json:"image"`
}

// Validate checks all fields and collects per-field messages.
func (in *EntryInput) Validate() error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "Name is required"
	}
	if _, err := time.Parse(models.DateLayout, in.BirthDate); err != nil {
		fields["birth_date"] = "Birth date must be a valid date"
	}
	if _, err := time.Parse(models.DateLayout, in.DeathDate); err != nil {
		fields["death_date"] = "Death date must be a valid date"
	}
	if in.BirthLocation == "" {
		fields["birth_location"] = "Birth location is required"
	}
	if in.Image == "" {
		fields["image"] = "Image is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}

// EntryService defines the interface for memorial entry operations.
type EntryService interface {
	// Create validates and inserts a new entry owned by userID.
	Create(ctx context.Context, userID string, input *EntryInput) (*models.Deceased, error)

	// Update overwrites the mutable fields of an existing entry.
	Update(ctx context.Context, id uuid.UUID, userID string, input *EntryInput) (*models.Deceased, error)

	// Delete removes an entry; dependent rows cascade at the storage layer.
	Delete(ctx context.Context, id uuid.UUID, userID string) error

	// GetByUser returns the user's entries, newest-created first.
	GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error)

	// GetByID returns a single owner-constrained entry.
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error)
}

type entryService struct {
	entryRepo repositories.DeceasedRepository
	views     *viewcache.Cache
	logger    *zap.Logger
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo repositories.DeceasedRepository, views *viewcache.Cache, logger *zap.Logger) EntryService {
	return &entryService{
		entryRepo: entryRepo,
		views:     views,
		logger:    logger,
	}
}

// Create validates and inserts a new entry owned by userID.
func (s *entryService) Create(ctx context.Context, userID string, input *EntryInput) (*models.Deceased, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	entry := &models.Deceased{
		UserID:        userID,
		Name:          input.Name,
		BirthDate:     input.BirthDate,
		DeathDate:     input.DeathDate,
		BirthLocation: input.BirthLocation,
		Image:         input.Image,
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	s.forgetEntryReads(ctx, entry.ID)
	s.views.Invalidate(ctx, viewcache.TagEntries(userID))

	s.logger.Info("entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("name", entry.Name))

	return entry, nil
}

// Update overwrites the mutable fields of an existing entry.
func (s *entryService) Update(ctx context.Context, id uuid.UUID, userID string, input *EntryInput) (*models.Deceased, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	entry := &models.Deceased{
		ID:            id,
		UserID:        userID,
		Name:          input.Name,
		BirthDate:     input.BirthDate,
		DeathDate:     input.DeathDate,
		BirthLocation: input.BirthLocation,
		Image:         input.Image,
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.forgetEntryReads(ctx, id)
	s.views.Invalidate(ctx, viewcache.TagEntries(userID), viewcache.TagEntry(id.String()))

	return entry, nil
}

// Delete removes an entry; dependent rows cascade at the storage layer.
func (s *entryService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.entryRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.forgetEntryReads(ctx, id)
	s.views.Invalidate(ctx, viewcache.TagEntries(userID), viewcache.TagEntry(id.String()))

	s.logger.Info("entry deleted", zap.String("entry_id", id.String()))
	return nil
}

// GetByUser returns the user's entries, newest-created first.
// The result is memoized for the remainder of the request.
func (s *entryService) GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error) {
	return requestcache.Memo(ctx, requestcache.Key("getCreatorEntries", userID), func() ([]*models.Deceased, error) {
		return s.entryRepo.GetByUser(ctx, userID)
	})
}

// GetByID returns a single owner-constrained entry, memoized per request.
func (s *entryService) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error) {
	return requestcache.Memo(ctx, requestcache.Key("getEntryById", id.String(), userID), func() (*models.Deceased, error) {
		return s.entryRepo.GetByID(ctx, id, userID)
	})
}

// forgetEntryReads drops request-local memoized entry reads so later reads
// in the same request observe the mutation.
func (s *entryService) forgetEntryReads(ctx context.Context, id uuid.UUID) {
	if cache, ok := requestcache.FromContext(ctx); ok {
		cache.Forget("getCreatorEntries")
		cache.Forget(requestcache.Key("getEntryById", id.String()))
	}
}

// Ensure entryService implements EntryService at compile time.
var _ EntryService = (*entryService)(nil)
