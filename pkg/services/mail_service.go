package services

import (
	"context"
	"fmt"
	"net/mail"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	mailpkg "github.com/finalspaces/finalspaces-engine/pkg/mail"
)

// MailService defines the interface for contact and waitlist mail.
type MailService interface {
	// SendContact validates and forwards a contact-form submission.
	SendContact(ctx context.Context, name, email, message string) error

	// JoinWaitlist subscribes an address to the waitlist audience.
	JoinWaitlist(ctx context.Context, email string) error
}

type mailService struct {
	sender     mailpkg.Sender
	subscriber mailpkg.Subscriber
	logger     *zap.Logger
}

// NewMailService creates a new MailService.
func NewMailService(sender mailpkg.Sender, subscriber mailpkg.Subscriber, logger *zap.Logger) MailService {
	return &mailService{
		sender:     sender,
		subscriber: subscriber,
		logger:     logger,
	}
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// SendContact validates and forwards a contact-form submission.
func (s *mailService) SendContact(ctx context.Context, name, email, message string) error {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "Name is required"
	}
	if !validEmail(email) {
		fields["email"] = "Invalid email address"
	}
	if message == "" {
		fields["message"] = "Message is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}

	if err := s.sender.SendContactMessage(ctx, &mailpkg.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	}); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// JoinWaitlist subscribes an address to the waitlist audience.
func (s *mailService) JoinWaitlist(ctx context.Context, email string) error {
	if !validEmail(email) {
		return apperrors.NewValidationError(map[string]string{"email": "Invalid email address"})
	}

	if err := s.subscriber.Subscribe(ctx, email); err != nil {
		return fmt.Errorf("failed to add email to waitlist: %w", err)
	}

	s.logger.Info("waitlist signup")
	return nil
}

// Ensure mailService implements MailService at compile time.
var _ MailService = (*mailService)(nil)
