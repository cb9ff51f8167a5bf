package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/repositories"
	"github.com/finalspaces/finalspaces-engine/pkg/requestcache"
	"github.com/finalspaces/finalspaces-engine/pkg/storage"
	"github.com/finalspaces/finalspaces-engine/pkg/viewcache"
)

// uploadURLTTL bounds how long a presigned upload URL stays usable.
const uploadURLTTL = 15 * time.Minute

// UploadTicket is the presigned destination for one browser upload. The
// browser PUTs the file to URL, then posts {url, key} back to Complete.
type UploadTicket struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadService defines the interface for user upload tracking.
type UploadService interface {
	// Initiate issues a presigned PUT URL under the user's key prefix.
	Initiate(ctx context.Context, userID, filename string) (*UploadTicket, error)

	// Complete records a finished upload.
	Complete(ctx context.Context, userID, url, storageKey string) (*models.UserUpload, error)

	// GetByUser returns the user's uploads, newest first.
	GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error)

	// Delete removes the object from the store and its tracking row.
	// Callers without a session get ErrUnauthorized before any storage
	// call is made.
	Delete(ctx context.Context, userID, storageKey string) error
}

type uploadService struct {
	uploadRepo repositories.UserUploadRepository
	store      storage.ObjectStore
	views      *viewcache.Cache
	logger     *zap.Logger
}

// NewUploadService creates a new UploadService.
func NewUploadService(
	uploadRepo repositories.UserUploadRepository,
	store storage.ObjectStore,
	views *viewcache.Cache,
	logger *zap.Logger,
) UploadService {
	return &uploadService{
		uploadRepo: uploadRepo,
		store:      store,
		views:      views,
		logger:     logger,
	}
}

// Initiate issues a presigned PUT URL for a direct browser upload. Keys are
// prefixed with the owner's id so uploads never collide across users.
func (s *uploadService) Initiate(ctx context.Context, userID, filename string) (*UploadTicket, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	if filename == "" {
		return nil, apperrors.NewValidationError(map[string]string{"filename": "Filename is required"})
	}

	key := fmt.Sprintf("%s/%s-%s", userID, uuid.NewString(), path.Base(filename))
	url, err := s.store.PresignPut(ctx, key, uploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	s.logger.Info("upload initiated", zap.String("storage_key", key))
	return &UploadTicket{URL: url, Key: key}, nil
}

// Complete records a finished upload.
func (s *uploadService) Complete(ctx context.Context, userID, url, storageKey string) (*models.UserUpload, error) {
	fields := map[string]string{}
	if url == "" {
		fields["url"] = "URL is required"
	}
	if storageKey == "" {
		fields["key"] = "Key is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	upload := &models.UserUpload{
		UserID:     userID,
		StorageKey: storageKey,
		URL:        url,
	}
	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.forgetUploadReads(ctx)
	s.views.Invalidate(ctx, viewcache.TagUploads(userID))

	return upload, nil
}

// GetByUser returns the user's uploads, newest first, memoized per request.
func (s *uploadService) GetByUser(ctx context.Context, userID string) ([]*models.UserUpload, error) {
	return requestcache.Memo(ctx, requestcache.Key("getUserUploads", userID), func() ([]*models.UserUpload, error) {
		return s.uploadRepo.GetByUser(ctx, userID)
	})
}

// Delete removes the object from the store and its tracking row.
func (s *uploadService) Delete(ctx context.Context, userID, storageKey string) error {
	if userID == "" {
		return apperrors.ErrUnauthorized
	}

	// Ownership check first so another user's key never reaches the store.
	if _, err := s.uploadRepo.GetByKey(ctx, storageKey, userID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, storageKey); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	if err := s.uploadRepo.DeleteByKey(ctx, storageKey, userID); err != nil {
		return fmt.Errorf("failed to remove upload record: %w", err)
	}

	s.forgetUploadReads(ctx)
	s.views.Invalidate(ctx, viewcache.TagUploads(userID))

	s.logger.Info("upload deleted", zap.String("storage_key", storageKey))
	return nil
}

func (s *uploadService) forgetUploadReads(ctx context.Context) {
	if cache, ok := requestcache.FromContext(ctx); ok {
		cache.Forget("getUserUploads")
	}
}

// Ensure uploadService implements UploadService at compile time.
var _ UploadService = (*uploadService)(nil)
