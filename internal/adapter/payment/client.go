// Package payment provides the HTTP client for the outbound payment
// rail used to pay out withdrawn proceeds.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client implements ports.PaymentRail against the rail's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new payment rail client.
func NewClient(baseURL string, log zerolog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

type payoutRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Payout pushes amount to an address. Any non-2xx response is a
// rejection; the caller rolls back the withdrawal.
func (c *Client) Payout(ctx context.Context, to string, amount int64) error {
	data, err := json.Marshal(payoutRequest{To: to, Amount: amount})
	if err != nil {
		return fmt.Errorf("encode payout: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payouts", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build payout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payout request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("payment rail returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("payment rail returned %d", resp.StatusCode)
	}

	c.log.Debug().Str("to", to).Int64("amount", amount).Msg("payout accepted")
	return nil
}
