package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// client wraps http.Client with a submission rate limiter so the simulator
// paces itself instead of hammering the ingest endpoint.
type client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
}

func newClient(baseURL string, timeout time.Duration, rps float64) *client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &client{
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		baseURL: baseURL,
	}
}

func (c *client) postJSON(ctx context.Context, path string, body, out any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitEvent posts one reaction event, waiting for a rate token first.
func (c *client) submitEvent(ctx context.Context, e eventPayload) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate wait: %w", err)
	}

	var ack ackResponse
	status, err := c.postJSON(ctx, "/events", e, &ack)
	if err != nil {
		return "", err
	}
	switch {
	case ack.Duplicate:
		return "duplicate", nil
	case status == http.StatusAccepted:
		return "accepted", nil
	default:
		return "failed", nil
	}
}
