package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
)

func validEntryInput() *EntryInput {
	return &EntryInput{
		Name:          "Ada Lovelace",
		BirthDate:     "1815-12-10",
		DeathDate:     "1852-11-27",
		BirthLocation: "London, England",
		Image:         "https://images.example/ada.jpg",
	}
}

func newTestEntryService(repo *mockDeceasedRepository) EntryService {
	return NewEntryService(repo, nil, zap.NewNop())
}

func TestEntryService_Create_Success(t *testing.T) {
	repo := &mockDeceasedRepository{}
	service := newTestEntryService(repo)

	entry, err := service.Create(context.Background(), "user-1", validEntryInput())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if repo.capturedEntry == nil {
		t.Fatal("expected entry to be captured")
	}
	if entry.UserID != "user-1" {
		t.Errorf("expected owner user-1, got %q", entry.UserID)
	}
	if entry.Name != "Ada Lovelace" {
		t.Errorf("unexpected name: %q", entry.Name)
	}
}

func TestEntryService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EntryInput)
		field  string
	}{
		{"missing name", func(in *EntryInput) { in.Name = "" }, "name"},
		{"bad birth date", func(in *EntryInput) { in.BirthDate = "12/10/1815" }, "birth_date"},
		{"bad death date", func(in *EntryInput) { in.DeathDate = "never" }, "death_date"},
		{"missing location", func(in *EntryInput) { in.BirthLocation = "" }, "birth_location"},
		{"missing image", func(in *EntryInput) { in.Image = "" }, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockDeceasedRepository{}
			service := newTestEntryService(repo)

			input := validEntryInput()
			tt.mutate(input)

			_, err := service.Create(context.Background(), "user-1", input)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}

			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatal("expected ValidationError")
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected field %q in %v", tt.field, verr.Fields)
			}
			if repo.capturedEntry != nil {
				t.Error("should not have called repository for invalid input")
			}
		})
	}
}

func TestEntryService_Update_NotFound(t *testing.T) {
	repo := &mockDeceasedRepository{updateErr: apperrors.ErrNotFound}
	service := newTestEntryService(repo)

	_, err := service.Update(context.Background(), uuid.New(), "user-1", validEntryInput())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntryService_Delete_Success(t *testing.T) {
	repo := &mockDeceasedRepository{}
	service := newTestEntryService(repo)

	id := uuid.New()
	if err := service.Delete(context.Background(), id, "user-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if repo.capturedID != id {
		t.Errorf("expected id %v, got %v", id, repo.capturedID)
	}
}

func TestEntryService_GetByUser_MemoizedWithinRequest(t *testing.T) {
	repo := &mockDeceasedRepository{entries: []*models.Deceased{{ID: uuid.New()}}}
	service := newTestEntryService(repo)

	ctx := requestcache.WithCache(context.Background())

	first, err := service.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}

	// Swap the backing data; the memoized result must still come back.
	repo.entries = nil
	second, err := service.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(second) != len(first) {
		t.Error("expected memoized result within the same request")
	}
}

func TestEntryService_Create_DropsMemoizedList(t *testing.T) {
	repo := &mockDeceasedRepository{}
	service := newTestEntryService(repo)

	ctx := requestcache.WithCache(context.Background())

	if _, err := service.GetByUser(ctx, "user-1"); err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}

	if _, err := service.Create(ctx, "user-1", validEntryInput()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	repo.entries = []*models.Deceased{{ID: uuid.New()}}
	entries, err := service.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(entries) != 1 {
		t.Error("expected list re-read after mutation in the same request")
	}
}
