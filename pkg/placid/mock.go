package placid

import "context"

// MockClient implements Client for testing.
type MockClient struct {
	CreateImageFunc func(ctx context.Context, req *Request) (*Composition, error)
	GetImageFunc    func(ctx context.Context, id string) (*Composition, error)

	CreateCalls []*Request
	GetCalls    []string
}

func (m *MockClient) CreateImage(ctx context.Context, req *Request) (*Composition, error) {
	m.CreateCalls = append(m.CreateCalls, req)
	if m.CreateImageFunc != nil {
		return m.CreateImageFunc(ctx, req)
	}
	return &Composition{ID: "mock-composition", Status: StatusQueued}, nil
}

func (m *MockClient) GetImage(ctx context.Context, id string) (*Composition, error) {
	m.GetCalls = append(m.GetCalls, id)
	if m.GetImageFunc != nil {
		return m.GetImageFunc(ctx, id)
	}
	return &Composition{ID: id, Status: StatusFinished, ImageURL: "https://images.example/" + id + ".png"}, nil
}

var _ Client = (*MockClient)(nil)
