package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/mail"
)

func newTestMailService(sender *mail.MockSender, subscriber *mail.MockSubscriber) MailService {
	return NewMailService(sender, subscriber, zap.NewNop())
}

func TestMailService_SendContact_Success(t *testing.T) {
	sender := &mail.MockSender{}
	service := newTestMailService(sender, &mail.MockSubscriber{})

	err := service.SendContact(context.Background(), "Grace", "grace@example.com", "Thank you")
	if err != nil {
		t.Fatalf("SendContact failed: %v", err)
	}

	if len(sender.Sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.Sent))
	}
	if sender.Sent[0].Email != "grace@example.com" {
		t.Errorf("unexpected sender email: %q", sender.Sent[0].Email)
	}
}

func TestMailService_SendContact_Validation(t *testing.T) {
	tests := []struct {
		name    string
		n, e, m string
		field   string
	}{
		{"missing name", "", "a@b.c", "hi", "name"},
		{"bad email", "Grace", "not-an-email", "hi", "email"},
		{"missing message", "Grace", "a@b.c", "", "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mail.MockSender{}
			service := newTestMailService(sender, &mail.MockSubscriber{})

			err := service.SendContact(context.Background(), tt.n, tt.e, tt.m)
			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("expected field %q flagged, got %v", tt.field, verr.Fields)
			}
			if len(sender.Sent) != 0 {
				t.Error("should not send invalid submissions")
			}
		})
	}
}

func TestMailService_SendContact_SenderError(t *testing.T) {
	sender := &mail.MockSender{
		SendFunc: func(ctx context.Context, msg *mail.ContactMessage) error {
			return errors.New("delivery failed")
		},
	}
	service := newTestMailService(sender, &mail.MockSubscriber{})

	if err := service.SendContact(context.Background(), "Grace", "grace@example.com", "hi"); err == nil {
		t.Fatal("expected error from sender")
	}
}

func TestMailService_JoinWaitlist(t *testing.T) {
	subscriber := &mail.MockSubscriber{}
	service := newTestMailService(&mail.MockSender{}, subscriber)

	if err := service.JoinWaitlist(context.Background(), "fan@example.com"); err != nil {
		t.Fatalf("JoinWaitlist failed: %v", err)
	}
	if len(subscriber.Subscribed) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subscriber.Subscribed))
	}

	if err := service.JoinWaitlist(context.Background(), "nope"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
