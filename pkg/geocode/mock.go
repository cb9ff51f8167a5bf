package geocode

import "context"

// MockClient implements Client for testing.
type MockClient struct {
	SearchFunc  func(ctx context.Context, query string) ([]Place, error)
	ReverseFunc func(ctx context.Context, lat, lon string) (*Place, error)

	SearchQueries []string
	ReverseCalls  int
}

func (m *MockClient) Search(ctx context.Context, query string) ([]Place, error) {
	m.SearchQueries = append(m.SearchQueries, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []Place{}, nil
}

func (m *MockClient) Reverse(ctx context.Context, lat, lon string) (*Place, error) {
	m.ReverseCalls++
	if m.ReverseFunc != nil {
		return m.ReverseFunc(ctx, lat, lon)
	}
	return &Place{}, nil
}

var _ Client = (*MockClient)(nil)
