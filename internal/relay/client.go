package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client issues the relay's single outbound call to the upstream run
// endpoint. The bearer token is injected here at construction; a missing
// credential is a startup configuration error, not a silent per-request one.
type Client struct {
	http  *http.Client
	url   string
	token string
}

func NewClient(url, token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		url:   url,
		token: token,
	}
}

// StatusError reports a non-2xx upstream status. The status is carried so the
// outer handler can embed it in the failure message.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream request failed with status %d", e.Status)
}

// Run forwards one validated request and decodes whatever JSON object comes
// back, imposing no shape on it. Cancelling ctx aborts the in-flight call.
func (c *Client) Run(ctx context.Context, req RunRequest) (map[string]any, error) {
	if len(req.Tweaks) == 0 {
		req.Tweaks = DefaultTweaks()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding run request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode}
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding upstream response: %w", err)
	}
	return payload, nil
}
