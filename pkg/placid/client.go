// Package placid provides the client for the memorial image composition
// API. The collaborator composes a portrait, epitaph quote, citation, and
// dates into a shareable memorial image; compositions are asynchronous and
// polled by id.
package placid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/logging"
)

// Composition status values reported by the collaborator.
const (
	StatusQueued   = "queued"
	StatusFinished = "finished"
	StatusError    = "error"
)

// Request carries the fields composed into a memorial image.
type Request struct {
	Name     string `json:"name"`
	Epitaph  string `json:"epitaph"`
	Citation string `json:"citation"`
	Birth    string `json:"birth"`
	Death    string `json:"death"`
	Portrait string `json:"portrait"`
}

// Composition is the collaborator's record of one image composition.
type Composition struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
}

// Client defines the interface for the composition API.
type Client interface {
	// CreateImage submits a composition request and returns the
	// collaborator's composition record (normally queued).
	CreateImage(ctx context.Context, req *Request) (*Composition, error)

	// GetImage fetches the current state of a composition by id.
	GetImage(ctx context.Context, id string) (*Composition, error)
}

// Config holds configuration for creating a composition client.
type Config struct {
	BaseURL    string
	APIKey     string
	TemplateID string
}

// client implements Client against the Placid REST API.
type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	templateID string
	logger     *zap.Logger
}

// NewClient creates a new composition API client.
func NewClient(cfg *Config, logger *zap.Logger) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		templateID: cfg.TemplateID,
		logger:     logger.Named("placid"),
	}, nil
}

// createPayload is the wire format for a composition request: the template
// id plus one layer per composed field.
type createPayload struct {
	TemplateID string                    `json:"template_uuid"`
	Layers     map[string]map[string]any `json:"layers"`
}

// CreateImage submits a composition request.
func (c *client) CreateImage(ctx context.Context, req *Request) (*Composition, error) {
	payload := createPayload{
		TemplateID: c.templateID,
		Layers: map[string]map[string]any{
			"name":     {"text": req.Name},
			"epitaph":  {"text": req.Epitaph},
			"citation": {"text": req.Citation},
			"dates":    {"text": req.Birth + " - " + req.Death},
			"portrait": {"image": req.Portrait},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal composition request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build composition request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	comp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	c.logger.Info("composition submitted",
		zap.String("composition_id", comp.ID),
		zap.String("status", comp.Status))

	return comp, nil
}

// GetImage fetches the current state of a composition.
func (c *client) GetImage(ctx context.Context, id string) (*Composition, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/images/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build composition lookup: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(httpReq)
}

func (c *client) do(req *http.Request) (*Composition, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors embed the request URL, which may carry keys.
		c.logger.Error("composition API request failed",
			zap.String("error", logging.SanitizeError(err)))
		return nil, fmt.Errorf("composition API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("composition API returned %d: %s", resp.StatusCode, string(body))
	}

	var comp Composition
	if err := json.NewDecoder(resp.Body).Decode(&comp); err != nil {
		return nil, fmt.Errorf("failed to decode composition response: %w", err)
	}

	return &comp, nil
}

// Ensure client implements Client at compile time.
var _ Client = (*client)(nil)
