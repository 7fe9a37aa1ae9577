package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Request is the contract with the external notification service. The core
// does not interpret the response beyond success or failure.
type Request struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// Dispatcher delivers a notification request. Implementations are best
// effort; callers must never let a dispatch failure affect a committed
// booking.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}

type HTTPDispatcher struct {
	endpoint string
	client   *http.Client
}

func NewHTTPDispatcher(endpoint string, timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}

	return nil
}

// NopDispatcher drops every request. Used when no notification endpoint is
// configured and in tests.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, Request) error {
	return nil
}
