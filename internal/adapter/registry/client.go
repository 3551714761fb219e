// Package registry provides the HTTP client for the external asset
// registry, the authority on token ownership, approval, and transfer.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client implements ports.AssetRegistry against the registry's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new registry client.
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

type ownerResponse struct {
	Owner string `json:"owner"`
}

type approvalResponse struct {
	Approved bool `json:"approved"`
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// OwnerOf returns the current owner of a token.
func (c *Client) OwnerOf(ctx context.Context, nftAddress string, tokenID uint64) (string, error) {
	path := fmt.Sprintf("/nfts/%s/tokens/%d/owner", nftAddress, tokenID)

	var resp ownerResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", fmt.Errorf("owner of %s/%d: %w", nftAddress, tokenID, err)
	}
	return resp.Owner, nil
}

// IsApproved reports whether operator may transfer the token.
func (c *Client) IsApproved(ctx context.Context, nftAddress string, tokenID uint64, operator string) (bool, error) {
	path := fmt.Sprintf("/nfts/%s/tokens/%d/approvals/%s", nftAddress, tokenID, operator)

	var resp approvalResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, fmt.Errorf("approval of %s/%d: %w", nftAddress, tokenID, err)
	}
	return resp.Approved, nil
}

// Transfer asks the registry to move the token from one owner to
// another. Any non-2xx response is a rejection.
func (c *Client) Transfer(ctx context.Context, nftAddress string, tokenID uint64, from, to string) error {
	path := fmt.Sprintf("/nfts/%s/tokens/%d/transfer", nftAddress, tokenID)

	if err := c.do(ctx, http.MethodPost, path, transferRequest{From: from, To: to}, nil); err != nil {
		return fmt.Errorf("transfer %s/%d: %w", nftAddress, tokenID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("registry returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("registry returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
