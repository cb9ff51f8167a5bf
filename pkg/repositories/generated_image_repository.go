package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/database"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// GeneratedImageRepository defines the interface for memorial image records.
type GeneratedImageRepository interface {
	Create(ctx context.Context, image *models.GeneratedImage) error
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error)
	GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, userID, status, imageURL string) error
}

// generatedImageRepository implements GeneratedImageRepository using PostgreSQL.
type generatedImageRepository struct {
	db *database.DB
}

// NewGeneratedImageRepository creates a new memorial image repository.
func NewGeneratedImageRepository(db *database.DB) GeneratedImageRepository {
	return &generatedImageRepository{db: db}
}

// Create inserts a new image record, normally with pending status.
func (r *generatedImageRepository) Create(ctx context.Context, image *models.GeneratedImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	if image.Status == "" {
		image.Status = models.ImageStatusPending
	}
	image.CreatedAt = time.Now()

	query := `
		INSERT INTO user_generated_images (id, user_id, deceased_id, epitaph_id, status, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		image.ID,
		image.UserID,
		image.DeceasedID,
		image.EpitaphID,
		image.Status,
		image.ImageURL,
		image.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}

	return nil
}

// GetByID retrieves a single image record constrained to (id, owner).
func (r *generatedImageRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error) {
	query := `
		SELECT id, user_id, deceased_id, epitaph_id, status, image_url, created_at
		FROM user_generated_images
		WHERE id = $1 AND user_id = $2`

	var img models.GeneratedImage
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&img.ID, &img.UserID, &img.DeceasedID, &img.EpitaphID,
		&img.Status, &img.ImageURL, &img.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image record: %w", err)
	}

	return &img, nil
}

// GetByDeceasedID retrieves image records constrained to (parent id, owner),
// newest-created first.
func (r *generatedImageRepository) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error) {
	query := `
		SELECT id, user_id, deceased_id, epitaph_id, status, image_url, created_at
		FROM user_generated_images
		WHERE deceased_id = $1 AND user_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, deceasedID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list image records: %w", err)
	}
	defer rows.Close()

	var images []*models.GeneratedImage
	for rows.Next() {
		var img models.GeneratedImage
		if err := rows.Scan(
			&img.ID, &img.UserID, &img.DeceasedID, &img.EpitaphID,
			&img.Status, &img.ImageURL, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan image record: %w", err)
		}
		images = append(images, &img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read image records: %w", err)
	}

	return images, nil
}

// UpdateStatus persists a composition status transition reported by the
// collaborator (pending -> complete/failed).
func (r *generatedImageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID, status, imageURL string) error {
	query := `
		UPDATE user_generated_images
		SET status = $3, image_url = $4
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID, status, imageURL)
	if err != nil {
		return fmt.Errorf("failed to update image status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure generatedImageRepository implements GeneratedImageRepository at compile time.
var _ GeneratedImageRepository = (*generatedImageRepository)(nil)
