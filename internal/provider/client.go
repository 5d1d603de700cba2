// Package provider wraps the external SMS delivery API. The gateway only
// governs the boundary up to this call; the provider's own queuing and
// carrier retries are its business.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured means the provider credential is missing. This is an
// operator problem, never silently defaulted.
var ErrNotConfigured = errors.New("provider API key is not configured")

// Error is a typed provider failure, distinguishable from authentication,
// rate-limit, and validation errors so callers can retry with backoff.
type Error struct {
	StatusCode int    // 0 for transport-level failures
	Body       string // Response body or transport error text
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("provider call failed: %s", e.Body)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// Message is one outbound SMS as the provider sees it.
type Message struct {
	Destination string
	Body        string
	SenderID    string // Optional provider sending identity
}

// Client abstracts the external delivery API.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPClient sends messages through the provider's REST endpoint using a
// fixed template with the message text carried in the personalization map.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	templateID string
	httpClient *http.Client
}

// NewHTTPClient creates a provider client. timeout bounds each send call.
func NewHTTPClient(baseURL, apiKey, templateID string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		templateID: templateID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendPayload struct {
	TemplateID      string            `json:"template_id"`
	To              string            `json:"to"`
	SenderID        string            `json:"sender_id,omitempty"`
	Personalization map[string]string `json:"personalization"`
}

// Send submits one message to the provider. Any non-2xx response or
// transport failure is surfaced as *Error.
func (c *HTTPClient) Send(ctx context.Context, msg Message) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	payload := sendPayload{
		TemplateID: c.templateID,
		To:         msg.Destination,
		SenderID:   msg.SenderID,
		Personalization: map[string]string{
			"message": msg.Body,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Read a bounded amount so a misbehaving provider cannot balloon logs
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return nil
}
