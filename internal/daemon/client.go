package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theirongolddev/gaji/internal/ledger"
	"github.com/theirongolddev/gaji/internal/store"
)

const (
	requestTimeout = 5 * time.Second
	maxRespBytes   = 1 << 20 // 1 MB
)

var (
	// ErrNotFound is returned when the service answers 404.
	ErrNotFound = errors.New("daemon: not found")
	// ErrNoStore is returned when the service runs without a snapshot store.
	ErrNoStore = errors.New("daemon: no snapshot store configured")
)

// Client talks to a running gaji service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at addr, either "host:port"
// or a full http URL.
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: addr,
		http:    &http.Client{},
	}
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.do(ctx, http.MethodGet, "/v1/status", &st)
	return st, err
}

// Summary fetches /v1/summary.
func (c *Client) Summary(ctx context.Context) (ledger.Summary, error) {
	var s ledger.Summary
	err := c.do(ctx, http.MethodGet, "/v1/summary", &s)
	return s, err
}

// SaveSnapshot asks the service to store its current ledger under name.
func (c *Client) SaveSnapshot(ctx context.Context, name string) (store.Info, error) {
	var info store.Info
	err := c.do(ctx, http.MethodPut, "/v1/snapshots/"+url.PathEscape(name), &info)
	return info, err
}

// LoadSnapshot replaces the service ledger with the snapshot stored under name.
func (c *Client) LoadSnapshot(ctx context.Context, name string) (ledger.Summary, error) {
	var s ledger.Summary
	err := c.do(ctx, http.MethodPost, "/v1/snapshots/"+url.PathEscape(name)+"/load", &s)
	return s, err
}

// do performs a body-less request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/gaji/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRespBytes))
	if err != nil {
		return fmt.Errorf("daemon: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, errorMessage(body))
	case http.StatusNotImplemented:
		return ErrNoStore
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("daemon: unexpected status %d: %s", resp.StatusCode, errorMessage(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("daemon: parsing %s: %w", path, err)
	}
	return nil
}

// errorMessage pulls the "error" field out of an error body, falling back
// to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
