// Package mail sends contact-form notifications and manages waitlist
// subscriptions. Contact messages go out through the Resend API; waitlist
// signups are subscribed to a Mailchimp audience.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ContactMessage is one submission from the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Sender delivers contact messages to the site operators.
type Sender interface {
	SendContactMessage(ctx context.Context, msg *ContactMessage) error
}

// Subscriber adds addresses to the waitlist audience.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// ResendConfig holds configuration for the Resend sender.
type ResendConfig struct {
	BaseURL   string
	APIKey    string
	FromEmail string
	ToEmail   string
}

// ResendClient implements Sender against the Resend emails API.
type ResendClient struct {
	httpClient *http.Client
	cfg        ResendConfig
	logger     *zap.Logger
}

// NewResendClient creates a new Resend sender.
func NewResendClient(cfg ResendConfig, logger *zap.Logger) (*ResendClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.FromEmail == "" || cfg.ToEmail == "" {
		return nil, fmt.Errorf("from and to addresses are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.resend.com"
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &ResendClient{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger.Named("resend"),
	}, nil
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// SendContactMessage forwards a contact-form submission to the operators'
// inbox.
func (c *ResendClient) SendContactMessage(ctx context.Context, msg *ContactMessage) error {
	payload := resendPayload{
		From:    fmt.Sprintf("FinalSpaces <%s>", c.cfg.FromEmail),
		To:      []string{c.cfg.ToEmail},
		Subject: "New message from FinalSpaces",
		Text:    fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email service returned %d: %s", resp.StatusCode, string(detail))
	}

	c.logger.Info("contact message delivered", zap.String("from", msg.Email))
	return nil
}

// MailchimpConfig holds configuration for the waitlist subscriber. The
// server prefix (for example "us21") comes from the API key suffix when
// not set explicitly.
type MailchimpConfig struct {
	BaseURL    string
	APIKey     string
	AudienceID string
}

// MailchimpClient implements Subscriber against the Mailchimp lists API.
type MailchimpClient struct {
	httpClient *http.Client
	cfg        MailchimpConfig
	logger     *zap.Logger
}

// NewMailchimpClient creates a new waitlist subscriber.
func NewMailchimpClient(cfg MailchimpConfig, logger *zap.Logger) (*MailchimpClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.AudienceID == "" {
		return nil, fmt.Errorf("audience id is required")
	}
	if cfg.BaseURL == "" {
		parts := strings.Split(cfg.APIKey, "-")
		if len(parts) < 2 {
			return nil, fmt.Errorf("api key carries no server prefix and no base URL was set")
		}
		cfg.BaseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", parts[len(parts)-1])
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &MailchimpClient{
		httpClient: &http.Client{},
		cfg:        cfg,
		logger:     logger.Named("mailchimp"),
	}, nil
}

type mailchimpMember struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

// Subscribe adds an address to the waitlist audience. Re-subscribing an
// existing member is treated as success.
func (c *MailchimpClient) Subscribe(ctx context.Context, email string) error {
	body, err := json.Marshal(mailchimpMember{EmailAddress: email, Status: "subscribed"})
	if err != nil {
		return fmt.Errorf("failed to marshal member: %w", err)
	}

	url := fmt.Sprintf("%s/lists/%s/members", c.cfg.BaseURL, c.cfg.AudienceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("anystring", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("subscribe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		// "Member Exists" comes back as a 400; signing up twice is fine.
		if resp.StatusCode == http.StatusBadRequest && bytes.Contains(detail, []byte("Member Exists")) {
			return nil
		}
		return fmt.Errorf("waitlist service returned %d: %s", resp.StatusCode, string(detail))
	}

	c.logger.Info("waitlist signup recorded")
	return nil
}

var (
	_ Sender     = (*ResendClient)(nil)
	_ Subscriber = (*MailchimpClient)(nil)
)
