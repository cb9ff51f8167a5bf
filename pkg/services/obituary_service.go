package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/llm"
	"github.com/finalspaces/finalspaces-engine/pkg/logging"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/prompts"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
	"github.com/finalspaces/finalspaces-engine/pkg/retry"
)

// ObituaryService defines the interface for obituary operations.
type ObituaryService interface {
	// GetByUser returns the user's finalized obituaries, newest first.
	GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error)

	// GetByID returns a single owner-constrained obituary.
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error)

	// GetByDeceasedID returns the obituaries generated for one entry.
	GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error)

	// GetDrafts returns the user's in-progress drafts, newest-updated first.
	GetDrafts(ctx context.Context, userID string) ([]*models.ObituaryDraft, error)

	// SaveDraft upserts the draft for (user, entry).
	SaveDraft(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.ObituaryDraft, error)

	// DeleteDraft removes a draft by id.
	DeleteDraft(ctx context.Context, id uuid.UUID, userID string) error

	// Generate produces obituary text from the form snapshot via the
	// configured providers and persists the result.
	Generate(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.Obituary, error)
}

type obituaryService struct {
	obituaryRepo repositories.ObituaryRepository
	draftRepo    repositories.ObituaryDraftRepository
	entryRepo    repositories.DeceasedRepository
	generators   []llm.Generator
	logger       *zap.Logger
}

// NewObituaryService creates a new ObituaryService. Generators may be empty
// in environments without provider credentials; Generate then fails with a
// configuration error.
func NewObituaryService(
	obituaryRepo repositories.ObituaryRepository,
	draftRepo repositories.ObituaryDraftRepository,
	entryRepo repositories.DeceasedRepository,
	generators []llm.Generator,
	logger *zap.Logger,
) ObituaryService {
	return &obituaryService{
		obituaryRepo: obituaryRepo,
		draftRepo:    draftRepo,
		entryRepo:    entryRepo,
		generators:   generators,
		logger:       logger,
	}
}

// GetByUser returns the user's finalized obituaries, newest first.
func (s *obituaryService) GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error) {
	return requestcache.Memo(ctx, requestcache.Key("getUserObituaries", userID), func() ([]*models.Obituary, error) {
		return s.obituaryRepo.GetByUser(ctx, userID)
	})
}

// GetByID returns a single owner-constrained obituary.
func (s *obituaryService) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error) {
	return s.obituaryRepo.GetByID(ctx, id, userID)
}

// GetByDeceasedID returns the obituaries generated for one entry.
func (s *obituaryService) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error) {
	return s.obituaryRepo.GetByDeceasedID(ctx, deceasedID, userID)
}

// GetDrafts returns the user's in-progress drafts, newest-updated first.
func (s *obituaryService) GetDrafts(ctx context.Context, userID string) ([]*models.ObituaryDraft, error) {
	return requestcache.Memo(ctx, requestcache.Key("getUserObituariesDraft", userID), func() ([]*models.ObituaryDraft, error) {
		return s.draftRepo.GetByUser(ctx, userID)
	})
}

// SaveDraft upserts the draft for (user, entry). The entry must exist and
// belong to the user.
func (s *obituaryService) SaveDraft(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.ObituaryDraft, error) {
	if _, err := s.entryRepo.GetByID(ctx, deceasedID, userID); err != nil {
		return nil, err
	}

	draft := &models.ObituaryDraft{
		UserID:     userID,
		DeceasedID: deceasedID,
		InputData:  input,
	}
	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	s.forgetObituaryReads(ctx)
	return draft, nil
}

// DeleteDraft removes a draft by id.
func (s *obituaryService) DeleteDraft(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.draftRepo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.forgetObituaryReads(ctx)
	return nil
}

// Generate produces obituary text from the form snapshot. Every configured
// provider is attempted; one provider failing does not discard another's
// result. Only when no provider produced text does the call fail.
func (s *obituaryService) Generate(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.Obituary, error) {
	if len(s.generators) == 0 {
		return nil, fmt.Errorf("no text providers are configured")
	}

	entry, err := s.entryRepo.GetByID(ctx, deceasedID, userID)
	if err != nil {
		return nil, err
	}

	prompt := prompts.BuildObituary(entry, input)

	obituary := &models.Obituary{
		UserID:     userID,
		DeceasedID: deceasedID,
		FullName:   entry.Name,
		BirthDate:  entry.BirthDate,
		DeathDate:  entry.DeathDate,
		InputData:  input,
	}

	var succeeded int
	var lastErr error
	for _, gen := range s.generators {
		result, err := retry.DoWithResult(ctx, nil, func() (*llm.GenerateResult, error) {
			return gen.Generate(ctx, prompt, prompts.ObituarySystemMessage)
		})
		if err != nil {
			lastErr = err
			s.logger.Warn("obituary generation failed",
				zap.String("provider", gen.Provider()),
				zap.String("model", gen.Model()),
				zap.Error(err))
			continue
		}

		switch gen.Provider() {
		case llm.ProviderOpenAI:
			obituary.GeneratedTextOpenAI = result.Text
			obituary.TokenUsageOpenAI = result.TotalTokens
		case llm.ProviderClaude:
			obituary.GeneratedTextClaude = result.Text
			obituary.TokenUsageClaude = result.TotalTokens
		}
		succeeded++

		s.logger.Debug("obituary text generated",
			zap.String("provider", gen.Provider()),
			zap.Int("total_tokens", result.TotalTokens),
			zap.String("preview", logging.TruncateString(result.Text, 120)))
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("failed to generate obituary: %w", lastErr)
	}

	if err := s.obituaryRepo.Create(ctx, obituary); err != nil {
		return nil, fmt.Errorf("failed to store obituary: %w", err)
	}

	s.forgetObituaryReads(ctx)

	s.logger.Info("obituary generated",
		zap.String("entry_id", deceasedID.String()),
		zap.Int("providers", succeeded),
		zap.Int("tokens_openai", obituary.TokenUsageOpenAI),
		zap.Int("tokens_claude", obituary.TokenUsageClaude))

	return obituary, nil
}

func (s *obituaryService) forgetObituaryReads(ctx context.Context) {
	if cache, ok := requestcache.FromContext(ctx); ok {
		cache.Forget("getUserObituaries")
		cache.Forget("getUserObituariesDraft")
	}
}

// Ensure obituaryService implements ObituaryService at compile time.
var _ ObituaryService = (*obituaryService)(nil)
