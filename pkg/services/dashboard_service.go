package services

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
)

// FeaturedEntry summarizes the most recently created entry for the
// dashboard.
type FeaturedEntry struct {
	Entry         *models.Deceased `json:"entry"`
	ObituaryCount int              `json:"obituary_count"`
	ImageCount    int              `json:"image_count"`
}

// DashboardStats aggregates a user's memorial activity.
type DashboardStats struct {
	TotalEntries     int            `json:"total_entries"`
	TotalUploads     int            `json:"total_uploads"`
	AverageAge       int            `json:"average_age"`
	EntriesThisMonth int            `json:"entries_this_month"`
	Featured         *FeaturedEntry `json:"featured,omitempty"`
}

// DashboardService defines the interface for dashboard aggregation.
type DashboardService interface {
	// GetStats computes the user's dashboard statistics. Zero-row inputs
	// produce zeroes, never errors.
	GetStats(ctx context.Context, userID string) (*DashboardStats, error)
}

type dashboardService struct {
	entrySvc     EntryService
	uploadSvc    UploadService
	obituaryRepo repositories.ObituaryRepository
	imageRepo    repositories.GeneratedImageRepository
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService. It reads entries and
// uploads through the services so the per-request memoization is shared
// with the rest of the request.
func NewDashboardService(
	entrySvc EntryService,
	uploadSvc UploadService,
	obituaryRepo repositories.ObituaryRepository,
	imageRepo repositories.GeneratedImageRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		entrySvc:     entrySvc,
		uploadSvc:    uploadSvc,
		obituaryRepo: obituaryRepo,
		imageRepo:    imageRepo,
		logger:       logger,
	}
}

// GetStats computes the user's dashboard statistics.
func (s *dashboardService) GetStats(ctx context.Context, userID string) (*DashboardStats, error) {
	entries, err := s.entrySvc.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	uploads, err := s.uploadSvc.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalEntries: len(entries),
		TotalUploads: len(uploads),
	}

	now := time.Now()
	var ageSum, aged int
	for _, e := range entries {
		if age, ok := e.AgeAtDeath(); ok {
			ageSum += age
			aged++
		}
		if e.CreatedAt.Year() == now.Year() && e.CreatedAt.Month() == now.Month() {
			stats.EntriesThisMonth++
		}
	}
	if aged > 0 {
		stats.AverageAge = int(math.Round(float64(ageSum) / float64(aged)))
	}

	// Entries come back newest-created first; the first is featured.
	if len(entries) > 0 {
		featured := entries[0]
		obituaries, err := s.obituaryRepo.GetByDeceasedID(ctx, featured.ID, userID)
		if err != nil {
			return nil, err
		}
		images, err := s.imageRepo.GetByDeceasedID(ctx, featured.ID, userID)
		if err != nil {
			return nil, err
		}
		stats.Featured = &FeaturedEntry{
			Entry:         featured,
			ObituaryCount: len(obituaries),
			ImageCount:    len(images),
		}
	}

	return stats, nil
}

// Ensure dashboardService implements DashboardService at compile time.
var _ DashboardService = (*dashboardService)(nil)
