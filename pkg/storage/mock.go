package storage

import (
	"context"
	"time"
)

// MockObjectStore implements ObjectStore for testing.
type MockObjectStore struct {
	PresignPutFunc func(ctx context.Context, key string, expiry time.Duration) (string, error)
	DeleteFunc     func(ctx context.Context, key string) error

	Presigned []string
	Deleted   []string
}

func (m *MockObjectStore) PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error) {
	m.Presigned = append(m.Presigned, key)
	if m.PresignPutFunc != nil {
		return m.PresignPutFunc(ctx, key, expiry)
	}
	return "https://store.example/put/" + key, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.Deleted = append(m.Deleted, key)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

var _ ObjectStore = (*MockObjectStore)(nil)
