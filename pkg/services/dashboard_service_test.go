package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

func newTestDashboardService(
	entryRepo *mockDeceasedRepository,
	uploadRepo *mockUserUploadRepository,
	obituaryRepo *mockObituaryRepository,
	imageRepo *mockGeneratedImageRepository,
) DashboardService {
	logger := zap.NewNop()
	entrySvc := NewEntryService(entryRepo, nil, logger)
	uploadSvc := NewUploadService(uploadRepo, nil, nil, logger)
	return NewDashboardService(entrySvc, uploadSvc, obituaryRepo, imageRepo, logger)
}

func TestDashboardService_GetStats_Empty(t *testing.T) {
	service := newTestDashboardService(
		&mockDeceasedRepository{},
		&mockUserUploadRepository{},
		&mockObituaryRepository{},
		&mockGeneratedImageRepository{},
	)

	stats, err := service.GetStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalEntries != 0 || stats.TotalUploads != 0 || stats.AverageAge != 0 || stats.EntriesThisMonth != 0 {
		t.Errorf("expected all-zero stats, got %+v", stats)
	}
	if stats.Featured != nil {
		t.Error("expected no featured entry with zero entries")
	}
}

func TestDashboardService_GetStats_Aggregates(t *testing.T) {
	now := time.Now()
	newest := &models.Deceased{
		ID:        uuid.New(),
		Name:      "Ada Lovelace",
		BirthDate: "1815-12-10",
		DeathDate: "1852-11-27", // age 36
		CreatedAt: now,
	}
	older := &models.Deceased{
		ID:        uuid.New(),
		Name:      "Alan Turing",
		BirthDate: "1912-06-23",
		DeathDate: "1954-06-07", // age 41
		CreatedAt: now.AddDate(0, -2, 0),
	}
	unparseable := &models.Deceased{
		ID:        uuid.New(),
		Name:      "Unknown",
		BirthDate: "",
		DeathDate: "",
		CreatedAt: now.AddDate(-1, 0, 0),
	}

	service := newTestDashboardService(
		&mockDeceasedRepository{entries: []*models.Deceased{newest, older, unparseable}},
		&mockUserUploadRepository{uploads: []*models.UserUpload{{}, {}, {}}},
		&mockObituaryRepository{obituaries: []*models.Obituary{{}, {}}},
		&mockGeneratedImageRepository{images: []*models.GeneratedImage{{}}},
	)

	stats, err := service.GetStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.TotalEntries != 3 {
		t.Errorf("expected 3 entries, got %d", stats.TotalEntries)
	}
	if stats.TotalUploads != 3 {
		t.Errorf("expected 3 uploads, got %d", stats.TotalUploads)
	}
	// (36 + 41) / 2 = 38.5, rounded to 39; the unparseable entry is skipped.
	if stats.AverageAge != 39 {
		t.Errorf("expected average age 39, got %d", stats.AverageAge)
	}
	if stats.EntriesThisMonth != 1 {
		t.Errorf("expected 1 entry this month, got %d", stats.EntriesThisMonth)
	}

	if stats.Featured == nil {
		t.Fatal("expected a featured entry")
	}
	if stats.Featured.Entry.Name != "Ada Lovelace" {
		t.Errorf("expected newest entry featured, got %q", stats.Featured.Entry.Name)
	}
	if stats.Featured.ObituaryCount != 2 || stats.Featured.ImageCount != 1 {
		t.Errorf("unexpected featured counts: %+v", stats.Featured)
	}
}
