package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/database"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// ObituaryRepository defines the interface for obituary data access.
// Obituaries are immutable after creation; there is no update operation.
type ObituaryRepository interface {
	Create(ctx context.Context, obituary *models.Obituary) error
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error)
	GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error)
}

// obituaryRepository implements ObituaryRepository using PostgreSQL.
type obituaryRepository struct {
	db *database.DB
}

// NewObituaryRepository creates a new obituary repository.
func NewObituaryRepository(db *database.DB) ObituaryRepository {
	return &obituaryRepository{db: db}
}

const obituaryColumns = `id, user_id, deceased_id, full_name, birth_date, death_date,
		generated_text_openai, generated_text_claude, input_data,
		token_usage_openai, token_usage_claude, created_at`

// Create inserts a finalized obituary with its input-form snapshot.
func (r *obituaryRepository) Create(ctx context.Context, obituary *models.Obituary) error {
	if obituary.ID == uuid.Nil {
		obituary.ID = uuid.New()
	}
	obituary.CreatedAt = time.Now()

	input, err := json.Marshal(obituary.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}

	query := `
		INSERT INTO obituaries (id, user_id, deceased_id, full_name, birth_date, death_date,
			generated_text_openai, generated_text_claude, input_data,
			token_usage_openai, token_usage_claude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.Exec(ctx, query,
		obituary.ID,
		obituary.UserID,
		obituary.DeceasedID,
		obituary.FullName,
		obituary.BirthDate,
		obituary.DeathDate,
		obituary.GeneratedTextOpenAI,
		obituary.GeneratedTextClaude,
		input,
		obituary.TokenUsageOpenAI,
		obituary.TokenUsageClaude,
		obituary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create obituary: %w", err)
	}

	return nil
}

func scanObituary(row pgx.Row) (*models.Obituary, error) {
	var o models.Obituary
	var input []byte
	err := row.Scan(
		&o.ID, &o.UserID, &o.DeceasedID, &o.FullName, &o.BirthDate, &o.DeathDate,
		&o.GeneratedTextOpenAI, &o.GeneratedTextClaude, &input,
		&o.TokenUsageOpenAI, &o.TokenUsageClaude, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(input, &o.InputData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal input data: %w", err)
	}
	return &o, nil
}

// GetByID retrieves a single obituary constrained to (id, owner).
func (r *obituaryRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error) {
	query := fmt.Sprintf(`SELECT %s FROM obituaries WHERE id = $1 AND user_id = $2`, obituaryColumns)

	o, err := scanObituary(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get obituary: %w", err)
	}

	return o, nil
}

// GetByUser retrieves all obituaries owned by userID, newest-created first.
func (r *obituaryRepository) GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error) {
	query := fmt.Sprintf(`SELECT %s FROM obituaries WHERE user_id = $1 ORDER BY created_at DESC`, obituaryColumns)
	return r.queryMany(ctx, query, userID)
}

// GetByDeceasedID retrieves obituaries constrained to (parent id, owner),
// newest-created first.
func (r *obituaryRepository) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error) {
	query := fmt.Sprintf(`SELECT %s FROM obituaries WHERE deceased_id = $1 AND user_id = $2 ORDER BY created_at DESC`, obituaryColumns)
	return r.queryMany(ctx, query, deceasedID, userID)
}

func (r *obituaryRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.Obituary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list obituaries: %w", err)
	}
	defer rows.Close()

	var obituaries []*models.Obituary
	for rows.Next() {
		o, err := scanObituary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obituary: %w", err)
		}
		obituaries = append(obituaries, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obituaries: %w", err)
	}

	return obituaries, nil
}

// Ensure obituaryRepository implements ObituaryRepository at compile time.
var _ ObituaryRepository = (*obituaryRepository)(nil)
