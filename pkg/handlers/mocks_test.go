package handlers

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// authedRequest returns the request with a session for userID installed in
// its context, the way the auth middleware does.
func authedRequest(r *http.Request, userID string) *http.Request {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
	ctx := context.WithValue(r.Context(), auth.ClaimsKey, claims)
	return r.WithContext(ctx)
}

// mockEntryService is a configurable mock for EntryHandler tests.
type mockEntryService struct {
	entries   []*models.Deceased
	entry     *models.Deceased
	createErr error
	updateErr error
	deleteErr error
	listErr   error
	getErr    error

	capturedUserID string
	capturedInput  *services.EntryInput
	deletedID      uuid.UUID
}

func (m *mockEntryService) Create(ctx context.Context, userID string, input *services.EntryInput) (*models.Deceased, error) {
	m.capturedUserID = userID
	m.capturedInput = input
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Deceased{ID: uuid.New(), UserID: userID, Name: input.Name}, nil
}

func (m *mockEntryService) Update(ctx context.Context, id uuid.UUID, userID string, input *services.EntryInput) (*models.Deceased, error) {
	m.capturedUserID = userID
	m.capturedInput = input
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Deceased{ID: id, UserID: userID, Name: input.Name}, nil
}

func (m *mockEntryService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	m.capturedUserID = userID
	m.deletedID = id
	return m.deleteErr
}

func (m *mockEntryService) GetByUser(ctx context.Context, userID string) ([]*models.Deceased, error) {
	m.capturedUserID = userID
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}

func (m *mockEntryService) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Deceased, error) {
	m.capturedUserID = userID
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.entry == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.entry, nil
}

// mockQuoteService is a configurable mock for QuoteHandler tests.
type mockQuoteService struct {
	saved     *services.SavedQuotes
	isSaved   bool
	saveErr   error
	removeErr error
	checkErr  error
	listErr   error

	savedQuote  string
	savedAuthor string
	removeCalls int
}

func (m *mockQuoteService) Save(ctx context.Context, userID, quote, author string) error {
	m.savedQuote = quote
	m.savedAuthor = author
	return m.saveErr
}

func (m *mockQuoteService) Remove(ctx context.Context, userID, quote, author string) error {
	m.removeCalls++
	return m.removeErr
}

func (m *mockQuoteService) IsSaved(ctx context.Context, userID, quote, author string) (bool, error) {
	if m.checkErr != nil {
		return false, m.checkErr
	}
	return m.isSaved, nil
}

func (m *mockQuoteService) GetSaved(ctx context.Context, userID string) (*services.SavedQuotes, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.saved == nil {
		return &services.SavedQuotes{Lookup: map[string]bool{}}, nil
	}
	return m.saved, nil
}

// mockUploadService is a configurable mock for UploadHandler tests.
type mockUploadService struct {
	uploads     []*models.UserUpload
	initiateErr error
	completeErr error
	listErr     error
	deleteErr   error

	capturedUserID   string
	capturedKey      string
	capturedURL      string
	capturedFilename string
	deleteCalls      int
}

func (m *mockUploadService) Initiate(ctx context.Context, userID, filename string) (*services.UploadTicket, error) {
	m.capturedUserID = userID
	m.capturedFilename = filename
	if m.initiateErr != nil {
		return nil, m.initiateErr
	}
	key := userID + "/" + filename
	return &services.UploadTicket{URL: "https://store.example/put/" + key, Key: key}, nil
}

func (m *mockUploadService) Complete(ctx context.Context, userID, url, storageKey string) (*models.UserUpload, error) {
	m.capturedUserID = userID
	m.capturedURL = url
	m.capturedKey = storageKey
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	return &models.UserUpload{ID: uuid.New(), UserID: userID, URL: url, StorageKey: storageKey}, nil
}

func (m *mockUploadService) GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.uploads, nil
}

func (m *mockUploadService) Delete(ctx context.Context, userID, storageKey string) error {
	m.deleteCalls++
	m.capturedUserID = userID
	m.capturedKey = storageKey
	if userID == "" {
		return apperrors.ErrUnauthorized
	}
	return m.deleteErr
}

// mockObituaryService is a configurable mock for ObituaryHandler tests.
type mockObituaryService struct {
	obituaries  []*models.Obituary
	obituary    *models.Obituary
	drafts      []*models.ObituaryDraft
	generateErr error
	draftErr    error

	generatedFor  uuid.UUID
	capturedInput models.JSONBMap
}

func (m *mockObituaryService) GetByUser(ctx context.Context, userID string) ([]*models.Obituary, error) {
	return m.obituaries, nil
}

func (m *mockObituaryService) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Obituary, error) {
	if m.obituary == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.obituary, nil
}

func (m *mockObituaryService) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.Obituary, error) {
	return m.obituaries, nil
}

func (m *mockObituaryService) GetDrafts(ctx context.Context, userID string) ([]*models.ObituaryDraft, error) {
	return m.drafts, nil
}

func (m *mockObituaryService) SaveDraft(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.ObituaryDraft, error) {
	if m.draftErr != nil {
		return nil, m.draftErr
	}
	return &models.ObituaryDraft{ID: uuid.New(), UserID: userID, DeceasedID: deceasedID, InputData: input}, nil
}

func (m *mockObituaryService) DeleteDraft(ctx context.Context, id uuid.UUID, userID string) error {
	return m.draftErr
}

func (m *mockObituaryService) Generate(ctx context.Context, userID string, deceasedID uuid.UUID, input models.JSONBMap) (*models.Obituary, error) {
	m.generatedFor = deceasedID
	m.capturedInput = input
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &models.Obituary{
		ID:                  uuid.New(),
		UserID:              userID,
		DeceasedID:          deceasedID,
		GeneratedTextOpenAI: "Generated text.",
		TokenUsageOpenAI:    100,
		InputData:           input,
	}, nil
}

// mockImageService is a configurable mock for ImageHandler tests.
type mockImageService struct {
	images     []*models.GeneratedImage
	image      *models.GeneratedImage
	createErr  error
	refreshErr error

	createdFor uuid.UUID
}

func (m *mockImageService) GetByDeceasedID(ctx context.Context, deceasedID uuid.UUID, userID string) ([]*models.GeneratedImage, error) {
	return m.images, nil
}

func (m *mockImageService) Create(ctx context.Context, userID string, deceasedID uuid.UUID, input *services.ImageInput) (*models.GeneratedImage, error) {
	m.createdFor = deceasedID
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.GeneratedImage{ID: uuid.New(), UserID: userID, DeceasedID: deceasedID, Status: models.ImageStatusPending}, nil
}

func (m *mockImageService) Refresh(ctx context.Context, id uuid.UUID, userID string) (*models.GeneratedImage, error) {
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	if m.image == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.image, nil
}

// mockMailService is a configurable mock for MailHandler tests.
type mockMailService struct {
	contactErr  error
	waitlistErr error

	contactCalls  int
	waitlistCalls int
}

func (m *mockMailService) SendContact(ctx context.Context, name, email, message string) error {
	m.contactCalls++
	return m.contactErr
}

func (m *mockMailService) JoinWaitlist(ctx context.Context, email string) error {
	m.waitlistCalls++
	return m.waitlistErr
}

// mockDashboardService is a configurable mock for DashboardHandler tests.
type mockDashboardService struct {
	stats *services.DashboardStats
	err   error
}

func (m *mockDashboardService) GetStats(ctx context.Context, userID string) (*services.DashboardStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

var (
	_ services.EntryService     = (*mockEntryService)(nil)
	_ services.QuoteService     = (*mockQuoteService)(nil)
	_ services.UploadService    = (*mockUploadService)(nil)
	_ services.ObituaryService  = (*mockObituaryService)(nil)
	_ services.ImageService     = (*mockImageService)(nil)
	_ services.MailService      = (*mockMailService)(nil)
	_ services.DashboardService = (*mockDashboardService)(nil)
)
