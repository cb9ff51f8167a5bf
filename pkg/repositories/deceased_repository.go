// Package repositories contains pgx-backed data access for finalspaces-engine.
// Every accessor on a user-owned table filters by the owning user id; no row
// is readable or writable across users at this layer.
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

// DeceasedRepository defines the interface for memorial entry data access.
type DeceasedRepository interface {
	Create(ctx context.Context, entry *models.Deceased) error
	GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error)
	Update(ctx context.Context, entry *models.Deceased) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// deceasedRepository implements DeceasedRepository using PostgreSQL.
type deceasedRepository struct {
	db *database.DB
}

// NewDeceasedRepository creates a new memorial entry repository.
func NewDeceasedRepository(db *database.DB) DeceasedRepository {
	return &deceasedRepository{db: db}
}

// Create inserts a new entry owned by entry.UserID.
func (r *deceasedRepository) Create(ctx context.Context, entry *models.Deceased) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO deceased (id, user_id, name, birth_date, death_date, birth_location, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Name,
		entry.BirthDate,
		entry.DeathDate,
		entry.BirthLocation,
		entry.Image,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	return nil
}

// GetByUser retrieves all entries owned by userID, newest-created first.
func (r *deceasedRepository) GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error) {
	query := `
		SELECT id, user_id, name, birth_date, death_date, birth_location, image, created_at, updated_at
		FROM deceased
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Deceased
	for rows.Next() {
		var e models.Deceased
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Name, &e.BirthDate, &e.DeathDate,
			&e.BirthLocation, &e.Image, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}

	return entries, nil
}

// GetByID retrieves a single entry constrained to (id, owner).
// Returns ErrNotFound when the entry is absent or owned by another user.
func (r *deceasedRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error) {
	query := `
		SELECT id, user_id, name, birth_date, death_date, birth_location, image, created_at, updated_at
		FROM deceased
		WHERE id = $1 AND user_id = $2`

	var e models.Deceased
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.BirthDate, &e.DeathDate,
		&e.BirthLocation, &e.Image, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return &e, nil
}

// Update overwrites the mutable fields of an existing entry and bumps its
// updated timestamp. Ownership is enforced in the WHERE clause.
func (r *deceasedRepository) Update(ctx context.Context, entry *models.Deceased) error {
	entry.UpdatedAt = time.Now()

	query := `
		UPDATE deceased
		SET name = $3, birth_date = $4, death_date = $5, birth_location = $6, image = $7, updated_at = $8
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Name,
		entry.BirthDate,
		entry.DeathDate,
		entry.BirthLocation,
		entry.Image,
		entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes an entry by (id, owner).
// Dependent obituaries and generated images are removed via CASCADE.
func (r *deceasedRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM deceased WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure deceasedRepository implements DeceasedRepository at compile time.
var _ DeceasedRepository = (*deceasedRepository)(nil)
