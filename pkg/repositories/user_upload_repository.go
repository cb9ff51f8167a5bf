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

// UserUploadRepository defines the interface for upload records.
type UserUploadRepository interface {
	Create(ctx context.Context, upload *models.UserUpload) error
	GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error)
	GetByKey(ctx context.Context, storageKey, userID string) (*models.UserUpload, error)
	DeleteByKey(ctx context.Context, storageKey, userID string) error
}

// userUploadRepository implements UserUploadRepository using PostgreSQL.
type userUploadRepository struct {
	db *database.DB
}

// NewUserUploadRepository creates a new upload record repository.
func NewUserUploadRepository(db *database.DB) UserUploadRepository {
	return &userUploadRepository{db: db}
}

// Create records a completed upload.
func (r *userUploadRepository) Create(ctx context.Context, upload *models.UserUpload) error {
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	upload.CreatedAt = time.Now()

	query := `
		INSERT INTO user_uploads (id, user_id, storage_key, url, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		upload.ID,
		upload.UserID,
		upload.StorageKey,
		upload.URL,
		upload.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create upload record: %w", err)
	}

	return nil
}

// GetByUser retrieves all upload records for userID, newest-created first.
func (r *userUploadRepository) GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error) {
	query := `
		SELECT id, user_id, storage_key, url, created_at
		FROM user_uploads
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var uploads []*models.UserUpload
	for rows.Next() {
		var u models.UserUpload
		if err := rows.Scan(&u.ID, &u.UserID, &u.StorageKey, &u.URL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload record: %w", err)
		}
		uploads = append(uploads, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read upload records: %w", err)
	}

	return uploads, nil
}

// GetByKey retrieves the upload record for (storage key, owner).
func (r *userUploadRepository) GetByKey(ctx context.Context, storageKey, userID string) (*models.UserUpload, error) {
	query := `
		SELECT id, user_id, storage_key, url, created_at
		FROM user_uploads
		WHERE storage_key = $1 AND user_id = $2`

	var u models.UserUpload
	err := r.db.QueryRow(ctx, query, storageKey, userID).Scan(
		&u.ID, &u.UserID, &u.StorageKey, &u.URL, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get upload record: %w", err)
	}

	return &u, nil
}

// DeleteByKey removes the upload record for (storage key, owner), keeping
// the table in sync with the object store.
func (r *userUploadRepository) DeleteByKey(ctx context.Context, storageKey, userID string) error {
	query := `DELETE FROM user_uploads WHERE storage_key = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, storageKey, userID)
	if err != nil {
		return fmt.Errorf("failed to delete upload record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure userUploadRepository implements UserUploadRepository at compile time.
var _ UserUploadRepository = (*userUploadRepository)(nil)
