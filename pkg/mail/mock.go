package mail

import "context"

// MockSender implements Sender for testing.
type MockSender struct {
	SendFunc func(ctx context.Context, msg *ContactMessage) error
	Sent     []*ContactMessage
}

func (m *MockSender) SendContactMessage(ctx context.Context, msg *ContactMessage) error {
	m.Sent = append(m.Sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

// MockSubscriber implements Subscriber for testing.
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, email string) error
	Subscribed    []string
}

func (m *MockSubscriber) Subscribe(ctx context.Context, email string) error {
	m.Subscribed = append(m.Subscribed, email)
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, email)
	}
	return nil
}

var (
	_ Sender     = (*MockSender)(nil)
	_ Subscriber = (*MockSubscriber)(nil)
)
