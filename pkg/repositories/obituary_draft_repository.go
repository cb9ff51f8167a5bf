package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/database"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// ObituaryDraftRepository defines the interface for draft staging state.
// One draft exists per (user, entry); saving again overwrites it.
type ObituaryDraftRepository interface {
	Upsert(ctx context.Context, draft *models.ObituaryDraft) error
	GetByUser(ctx context.Context, userID string) ([]*models.ObituaryDraft, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// obituaryDraftRepository implements ObituaryDraftRepository using PostgreSQL.
type obituaryDraftRepository struct {
	db *database.DB
}

// NewObituaryDraftRepository creates a new draft repository.
func NewObituaryDraftRepository(db *database.DB) ObituaryDraftRepository {
	return &obituaryDraftRepository{db: db}
}

// Upsert inserts or overwrites the draft for (user, entry) and bumps its
// updated timestamp.
func (r *obituaryDraftRepository) Upsert(ctx context.Context, draft *models.ObituaryDraft) error {
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	draft.UpdatedAt = time.Now()

	input, err := json.Marshal(draft.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}

	query := `
		INSERT INTO obituaries_draft (id, user_id, deceased_id, input_data, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, deceased_id) DO UPDATE
		SET input_data = EXCLUDED.input_data,
		    updated_at = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, query,
		draft.ID,
		draft.UserID,
		draft.DeceasedID,
		input,
		draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}

	return nil
}

// GetByUser retrieves all drafts for userID, newest-updated first.
func (r *obituaryDraftRepository) GetByUser(ctx context.Context, userID string) ([]*models.ObituaryDraft, error) {
	query := `
		SELECT id, user_id, deceased_id, input_data, updated_at
		FROM obituaries_draft
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*models.ObituaryDraft
	for rows.Next() {
		var d models.ObituaryDraft
		var input []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.DeceasedID, &input, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		if err := json.Unmarshal(input, &d.InputData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal input data: %w", err)
		}
		drafts = append(drafts, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read drafts: %w", err)
	}

	return drafts, nil
}

// Delete removes a draft by (id, owner). Called after an obituary is
// finalized from it.
func (r *obituaryDraftRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM obituaries_draft WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure obituaryDraftRepository implements ObituaryDraftRepository at compile time.
var _ ObituaryDraftRepository = (*obituaryDraftRepository)(nil)
