package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// mockDeceasedRepository is a configurable mock for entry data access.
type mockDeceasedRepository struct {
	entries   []*models.Deceased
	entry     *models.Deceased
	createErr error
	listErr   error
	getErr    error
	updateErr error
	deleteErr error

	capturedEntry *models.Deceased
	capturedID    uuid.UUID
	capturedUser  string
	deleteCalls   int
}

func (m *mockDeceasedRepository) Create(ctx context.Context, entry *models.Deceased) error {
	m.capturedEntry = entry
	if m.createErr != nil {
		return m.createErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return nil
}

func (m *mockDeceasedRepository) GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error) {
	m.capturedUser = userID
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *mockDeceasedRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error) {
	m.capturedID = id
	m.capturedUser = userID
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.entry == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.entry, nil
}

func (m *mockDeceasedRepository) Update(ctx context.Context, entry *models.Deceased) error {
	m.capturedEntry = entry
	return m.updateErr
}

func (m *mockDeceasedRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	m.capturedID = id
	m.capturedUser = userID
	m.deleteCalls++
	return m.deleteErr
}

// mockSavedQuoteRepository is a configurable mock for saved quote access.
type mockSavedQuoteRepository struct {
	quotes    []*models.SavedQuote
	exists    bool
	saveErr   error
	removeErr error
	existsErr error
	listErr   error

	capturedQuote *models.SavedQuote
	removedQuote  string
	removedAuthor string
	existsCalls   int
	listCalls     int
}

func (m *mockSavedQuoteRepository) Save(ctx context.Context, quote *models.SavedQuote) error {
	m.capturedQuote = quote
	return m.saveErr
}

func (m *mockSavedQuoteRepository) Remove(ctx context.Context, userID, quote, author string) error {
	m.removedQuote = quote
	m.removedAuthor = author
	return m.removeErr
}

func (m *mockSavedQuoteRepository) Exists(ctx context.Context, userID, quote, author string) (bool, error) {
	m.existsCalls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockSavedQuoteRepository) GetByUser(ctx context.Context, userID string) ([]*models.SavedQuote, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.quotes, nil
}

// mockObituaryRepository is a configurable mock for obituary access.
type mockObituaryRepository struct {
	obituaries []*models.Obituary
	obituary   *models.Obituary
	createErr  error
	getErr     error
	listErr    error

	capturedObituary *models.Obituary
}

func (m *mockObituaryRepository) Create(ctx context.Context, obituary *models.Obituary) error {
	m.capturedObituary = obituary
	return m.createErr
}

func (m *mockObituaryRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.obituary == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.obituary, nil
}

func (m *mockObituaryRepository) GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.obituaries, nil
}

func (m *mockObituaryRepository) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.obituaries, nil
}

// mockObituaryDraftRepository is a configurable mock for draft access.
type mockObituaryDraftRepository struct {
	drafts    []*models.ObituaryDraft
	upsertErr error
	listErr   error
	deleteErr error

	capturedDraft *models.ObituaryDraft
	deletedID     uuid.UUID
}

func (m *mockObituaryDraftRepository) Upsert(ctx context.Context, draft *models.ObituaryDraft) error {
	m.capturedDraft = draft
	return m.upsertErr
}

func (m *mockObituaryDraftRepository) GetByUser(ctx context.Context, userID string) ([]*models.ObituaryDraft, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.drafts, nil
}

func (m *mockObituaryDraftRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	m.deletedID = id
	return m.deleteErr
}

// mockGeneratedImageRepository is a configurable mock for image records.
type mockGeneratedImageRepository struct {
	images    []*models.GeneratedImage
	image     *models.GeneratedImage
	createErr error
	getErr    error
	listErr   error
	updateErr error

	capturedImage *models.GeneratedImage
	updatedStatus string
	updatedURL    string
	updateCalls   int
}

func (m *mockGeneratedImageRepository) Create(ctx context.Context, image *models.GeneratedImage) error {
	m.capturedImage = image
	if m.createErr != nil {
		return m.createErr
	}
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	return nil
}

func (m *mockGeneratedImageRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.image == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.image, nil
}

func (m *mockGeneratedImageRepository) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.images, nil
}

func (m *mockGeneratedImageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, userID, status, imageURL string) error {
	m.updateCalls++
	m.updatedStatus = status
	m.updatedURL = imageURL
	return m.updateErr
}

// mockUserUploadRepository is a configurable mock for upload records.
type mockUserUploadRepository struct {
	uploads   []*models.UserUpload
	upload    *models.UserUpload
	createErr error
	listErr   error
	getErr    error
	deleteErr error

	capturedUpload *models.UserUpload
	deletedKey     string
	getCalls       int
}

func (m *mockUserUploadRepository) Create(ctx context.Context, upload *models.UserUpload) error {
	m.capturedUpload = upload
	return m.createErr
}

func (m *mockUserUploadRepository) GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.uploads, nil
}

func (m *mockUserUploadRepository) GetByKey(ctx context.Context, storageKey, userID string) (*models.UserUpload, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.upload == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.upload, nil
}

func (m *mockUserUploadRepository) DeleteByKey(ctx context.Context, storageKey, userID string) error {
	m.deletedKey = storageKey
	return m.deleteErr
}
