package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/placid"
)

func newTestImageService(imageRepo *mockGeneratedImageRepository, entryRepo *mockDeceasedRepository, composer placid.Client) ImageService {
	return NewImageService(imageRepo, entryRepo, composer, zap.NewNop())
}

func TestImageService_Create_Success(t *testing.T) {
	entry := testEntry()
	imageRepo := &mockGeneratedImageRepository{}
	entryRepo := &mockDeceasedRepository{entry: entry}
	composer := &placid.MockClient{}

	service := newTestImageService(imageRepo, entryRepo, composer)

	image, err := service.Create(context.Background(), "user-1", entry.ID, &ImageInput{
		Epitaph:  "Poetical science",
		Citation: "Her family",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if image.Status != models.ImageStatusPending {
		t.Errorf("expected pending status, got %q", image.Status)
	}
	if image.EpitaphID != "mock-composition" {
		t.Errorf("expected collaborator composition id, got %q", image.EpitaphID)
	}

	if len(composer.CreateCalls) != 1 {
		t.Fatalf("expected 1 composition call, got %d", len(composer.CreateCalls))
	}
	req := composer.CreateCalls[0]
	if req.Name != "Ada Lovelace" {
		t.Errorf("unexpected name: %q", req.Name)
	}
	if req.Birth != "December 10, 1815" || req.Death != "November 27, 1852" {
		t.Errorf("expected formatted dates, got %q / %q", req.Birth, req.Death)
	}
	if req.Portrait != entry.Image {
		t.Errorf("unexpected portrait: %q", req.Portrait)
	}
}

func TestImageService_Create_MissingEpitaph(t *testing.T) {
	composer := &placid.MockClient{}
	service := newTestImageService(&mockGeneratedImageRepository{}, &mockDeceasedRepository{entry: testEntry()}, composer)

	_, err := service.Create(context.Background(), "user-1", uuid.New(), &ImageInput{})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(composer.CreateCalls) != 0 {
		t.Error("should not call the collaborator for invalid input")
	}
}

func TestImageService_Create_EntryNotFound(t *testing.T) {
	composer := &placid.MockClient{}
	service := newTestImageService(&mockGeneratedImageRepository{}, &mockDeceasedRepository{}, composer)

	_, err := service.Create(context.Background(), "user-1", uuid.New(), &ImageInput{Epitaph: "x"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestImageService_Refresh_CompletesPendingImage(t *testing.T) {
	imageRepo := &mockGeneratedImageRepository{
		image: &models.GeneratedImage{
			ID:        uuid.New(),
			UserID:    "user-1",
			EpitaphID: "comp-1",
			Status:    models.ImageStatusPending,
		},
	}
	composer := &placid.MockClient{
		GetImageFunc: func(ctx context.Context, id string) (*placid.Composition, error) {
			return &placid.Composition{ID: id, Status: placid.StatusFinished, ImageURL: "https://cdn.example/comp-1.png"}, nil
		},
	}
	service := newTestImageService(imageRepo, &mockDeceasedRepository{}, composer)

	image, err := service.Refresh(context.Background(), imageRepo.image.ID, "user-1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if image.Status != models.ImageStatusComplete {
		t.Errorf("expected complete status, got %q", image.Status)
	}
	if image.ImageURL != "https://cdn.example/comp-1.png" {
		t.Errorf("unexpected url: %q", image.ImageURL)
	}
	if imageRepo.updateCalls != 1 || imageRepo.updatedStatus != models.ImageStatusComplete {
		t.Error("expected status transition to be persisted")
	}
}

func TestImageService_Refresh_StillQueued(t *testing.T) {
	imageRepo := &mockGeneratedImageRepository{
		image: &models.GeneratedImage{ID: uuid.New(), EpitaphID: "comp-1", Status: models.ImageStatusPending},
	}
	composer := &placid.MockClient{
		GetImageFunc: func(ctx context.Context, id string) (*placid.Composition, error) {
			return &placid.Composition{ID: id, Status: placid.StatusQueued}, nil
		},
	}
	service := newTestImageService(imageRepo, &mockDeceasedRepository{}, composer)

	image, err := service.Refresh(context.Background(), imageRepo.image.ID, "user-1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !image.IsPending() {
		t.Errorf("expected image to stay pending, got %q", image.Status)
	}
	if imageRepo.updateCalls != 0 {
		t.Error("should not persist while still queued")
	}
}

func TestImageService_Refresh_CompletedImageSkipsPoll(t *testing.T) {
	imageRepo := &mockGeneratedImageRepository{
		image: &models.GeneratedImage{ID: uuid.New(), Status: models.ImageStatusComplete, ImageURL: "https://cdn.example/x.png"},
	}
	composer := &placid.MockClient{}
	service := newTestImageService(imageRepo, &mockDeceasedRepository{}, composer)

	image, err := service.Refresh(context.Background(), imageRepo.image.ID, "user-1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if image.Status != models.ImageStatusComplete {
		t.Errorf("unexpected status: %q", image.Status)
	}
	if len(composer.GetCalls) != 0 {
		t.Error("should not poll the collaborator for a settled image")
	}
}

func TestImageService_Refresh_FailedComposition(t *testing.T) {
	imageRepo := &mockGeneratedImageRepository{
		image: &models.GeneratedImage{ID: uuid.New(), EpitaphID: "comp-1", Status: models.ImageStatusPending},
	}
	composer := &placid.MockClient{
		GetImageFunc: func(ctx context.Context, id string) (*placid.Composition, error) {
			return &placid.Composition{ID: id, Status: placid.StatusError}, nil
		},
	}
	service := newTestImageService(imageRepo, &mockDeceasedRepository{}, composer)

	image, err := service.Refresh(context.Background(), imageRepo.image.ID, "user-1")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if image.Status != models.ImageStatusFailed {
		t.Errorf("expected failed status, got %q", image.Status)
	}
}

func TestFormatMemorialDate(t *testing.T) {
	if got := formatMemorialDate("1815-12-10"); got != "December 10, 1815" {
		t.Errorf("unexpected formatted date: %q", got)
	}
	if got := formatMemorialDate("unknown"); got != "unknown" {
		t.Errorf("unparseable input should pass through, got %q", got)
	}
}
