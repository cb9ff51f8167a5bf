package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestSendContactMessage(t *testing.T) {
	var gotPayload resendPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer rk-test" {
			t.Errorf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	c, err := NewResendClient(ResendConfig{
		BaseURL:   server.URL,
		APIKey:    "rk-test",
		FromEmail: "noreply@finalspaces.com",
		ToEmail:   "hello@finalspaces.com",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewResendClient: %v", err)
	}

	err = c.SendContactMessage(context.Background(), &ContactMessage{
		Name:    "Grace",
		Email:   "grace@example.com",
		Message: "Thank you for the memorial",
	})
	if err != nil {
		t.Fatalf("SendContactMessage: %v", err)
	}

	if gotPayload.From != "FinalSpaces <noreply@finalspaces.com>" {
		t.Errorf("unexpected from: %q", gotPayload.From)
	}
	if len(gotPayload.To) != 1 || gotPayload.To[0] != "hello@finalspaces.com" {
		t.Errorf("unexpected to: %v", gotPayload.To)
	}
	if gotPayload.Subject != "New message from FinalSpaces" {
		t.Errorf("unexpected subject: %q", gotPayload.Subject)
	}
}

func TestSendContactMessageServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid from"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	c, err := NewResendClient(ResendConfig{
		BaseURL:   server.URL,
		APIKey:    "rk",
		FromEmail: "a@b.c",
		ToEmail:   "d@e.f",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewResendClient: %v", err)
	}

	if err := c.SendContactMessage(context.Background(), &ContactMessage{Name: "x"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSubscribe(t *testing.T) {
	var gotMember mailchimpMember
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lists/aud-1/members" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if _, pass, ok := r.BasicAuth(); !ok || pass != "mc-key" {
			t.Error("expected basic auth carrying the api key")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotMember); err != nil {
			t.Fatalf("decode member: %v", err)
		}
		w.Write([]byte(`{"id":"member-1"}`))
	}))
	defer server.Close()

	c, err := NewMailchimpClient(MailchimpConfig{
		BaseURL:    server.URL,
		APIKey:     "mc-key",
		AudienceID: "aud-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewMailchimpClient: %v", err)
	}

	if err := c.Subscribe(context.Background(), "fan@example.com"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if gotMember.EmailAddress != "fan@example.com" || gotMember.Status != "subscribed" {
		t.Errorf("unexpected member payload: %+v", gotMember)
	}
}

func TestSubscribeExistingMemberIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"title":"Member Exists","detail":"fan@example.com is already a list member"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c, err := NewMailchimpClient(MailchimpConfig{
		BaseURL:    server.URL,
		APIKey:     "mc-key",
		AudienceID: "aud-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewMailchimpClient: %v", err)
	}

	if err := c.Subscribe(context.Background(), "fan@example.com"); err != nil {
		t.Fatalf("expected existing member to be treated as success, got %v", err)
	}
}

func TestMailchimpServerPrefixFromKey(t *testing.T) {
	c, err := NewMailchimpClient(MailchimpConfig{
		APIKey:     "abc123-us21",
		AudienceID: "aud-1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewMailchimpClient: %v", err)
	}
	if c.cfg.BaseURL != "https://us21.api.mailchimp.com/3.0" {
		t.Errorf("unexpected base URL: %q", c.cfg.BaseURL)
	}

	if _, err := NewMailchimpClient(MailchimpConfig{APIKey: "noprefix", AudienceID: "a"}, zap.NewNop()); err == nil {
		t.Error("expected error for key without server prefix")
	}
}
