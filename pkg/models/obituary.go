package models

import (
	"time"

	"github.com/google/uuid"
)

// Obituary is a finalized generated text artifact tied to one entry.
// Rows are immutable after creation; regeneration creates a new row.
// Up to two providers contribute text; either column may be empty when a
// provider was unavailable or failed.
type Obituary struct {
	ID                  uuid.UUID `json:"id"`
	UserID              string    `json:"user_id"`
	DeceasedID          uuid.UUID `json:"deceased_id"`
	FullName            string    `json:"full_name"`
	BirthDate           string    `json:"birth_date"`
	DeathDate           string    `json:"death_date"`
	GeneratedTextOpenAI string    `json:"generated_text_openai"`
	GeneratedTextClaude string    `json:"generated_text_claude"`
	InputData           JSONBMap  `json:"input_data"`
	TokenUsageOpenAI    int       `json:"token_usage_openai"`
	TokenUsageClaude    int       `json:"token_usage_claude"`
	CreatedAt           time.Time `json:"created_at"`
}

// Text returns the first non-empty generated text, preferring OpenAI.
func (o *Obituary) Text() string {
	if o.GeneratedTextOpenAI != "" {
		return o.GeneratedTextOpenAI
	}
	return o.GeneratedTextClaude
}

// ObituaryDraft holds in-progress form state before an obituary is finalized.
// Distinguished from Obituary by lacking generated content and carrying an
// updated timestamp instead of only a created one.
type ObituaryDraft struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	DeceasedID uuid.UUID `json:"deceased_id"`
	InputData  JSONBMap  `json:"input_data"`
	UpdatedAt  time.Time `json:"updated_at"`
}
