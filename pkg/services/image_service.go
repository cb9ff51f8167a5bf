package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/placid"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
)

// ImageInput carries the epitaph fields composed into a memorial image.
type ImageInput struct {
	Epitaph  string `json:"epitaph"`
	Citation string `json:"citation"`
}

// Validate checks the epitaph fields.
func (in *ImageInput) Validate() error {
	fields := map[string]string{}
	if in.Epitaph == "" {
		fields["epitaph"] = "Epitaph is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}
	return nil
}

// ImageService defines the interface for memorial image operations.
type ImageService interface {
	// GetByDeceasedID returns the composed images for one entry.
	GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error)

	// Create submits a composition to the collaborator and records it as
	// pending.
	Create(ctx context.Context, userID string, deceasedID uuid.UUID, input *ImageInput) (*models.GeneratedImage, error)

	// Refresh polls the collaborator for a still-pending composition and
	// persists any status transition.
	Refresh(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error)
}

type imageService struct {
	imageRepo repositories.GeneratedImageRepository
	entryRepo repositories.DeceasedRepository
	composer  placid.Client
	logger    *zap.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(
	imageRepo repositories.GeneratedImageRepository,
	entryRepo repositories.DeceasedRepository,
	composer placid.Client,
	logger *zap.Logger,
) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		entryRepo: entryRepo,
		composer:  composer,
		logger:    logger,
	}
}

// GetByDeceasedID returns the composed images for one entry.
func (s *imageService) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error) {
	return s.imageRepo.GetByDeceasedID(ctx, deceasedID, userID)
}

// formatMemorialDate renders an ISO date as the long form shown on the
// composed image. Unparseable input passes through untouched.
func formatMemorialDate(iso string) string {
	t, err := time.Parse(models.DateLayout, iso)
	if err != nil {
		return iso
	}
	return t.Format("January 2, 2006")
}

// Create submits a composition to the collaborator and records it as pending.
func (s *imageService) Create(ctx context.Context, userID string, deceasedID uuid.UUID, input *ImageInput) (*models.GeneratedImage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.GetByID(ctx, deceasedID, userID)
	if err != nil {
		return nil, err
	}

	comp, err := s.composer.CreateImage(ctx, &placid.Request{
		Name:     entry.Name,
		Epitaph:  input.Epitaph,
		Citation: input.Citation,
		Birth:    formatMemorialDate(entry.BirthDate),
		Death:    formatMemorialDate(entry.DeathDate),
		Portrait: entry.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit composition: %w", err)
	}

	image := &models.GeneratedImage{
		UserID:     userID,
		DeceasedID: deceasedID,
		EpitaphID:  comp.ID,
		Status:     models.ImageStatusPending,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to record composition: %w", err)
	}

	s.logger.Info("memorial image submitted",
		zap.String("entry_id", deceasedID.String()),
		zap.String("composition_id", comp.ID))

	return image, nil
}

// Refresh polls the collaborator for a still-pending composition.
// Completed and failed rows are returned as stored without another call.
func (s *imageService) Refresh(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error) {
	image, err := s.imageRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !image.IsPending() {
		return image, nil
	}

	comp, err := s.composer.GetImage(ctx, image.EpitaphID)
	if err != nil {
		return nil, fmt.Errorf("failed to poll composition: %w", err)
	}

	switch comp.Status {
	case placid.StatusFinished:
		image.Status = models.ImageStatusComplete
		image.ImageURL = comp.ImageURL
	case placid.StatusError:
		image.Status = models.ImageStatusFailed
	default:
		// Still queued; nothing to persist.
		return image, nil
	}

	if err := s.imageRepo.UpdateStatus(ctx, id, userID, image.Status, image.ImageURL); err != nil {
		return nil, fmt.Errorf("failed to record composition status: %w", err)
	}

	s.logger.Info("memorial image status updated",
		zap.String("image_id", id.String()),
		zap.String("status", image.Status))

	return image, nil
}

// Ensure imageService implements ImageService at compile time.
var _ ImageService = (*imageService)(nil)
