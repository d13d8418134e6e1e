package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/version"
)

// DefaultTimeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// maxBody bounds a single response.
const maxBody = 8 << 20

// Client talks to a skymap API server.
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ByID implements ObjectService.
func (c *Client) ByID(ctx context.Context, id string) (ObjectDetail, error) {
	kind, ok := catalog.ParseKind(id)
	if !ok {
		return ObjectDetail{}, fmt.Errorf("object %q: %w", id, ErrNotFound)
	}

	var resp ObjectResponse
	if err := c.get(ctx, "/api/"+kind.String()+"/"+url.PathEscape(id), &resp); err != nil {
		return ObjectDetail{}, err
	}
	d, ok := resp.Detail()
	if !ok {
		return ObjectDetail{}, fmt.Errorf("object %q: %w", id, ErrNotFound)
	}
	return d, nil
}

// ByName implements ObjectService.
func (c *Client) ByName(ctx context.Context, name string) (ObjectDetail, error) {
	var resp ObjectResponse
	if err := c.get(ctx, "/api/name/"+url.PathEscape(name), &resp); err != nil {
		return ObjectDetail{}, err
	}
	d, ok := resp.Detail()
	if !ok {
		return ObjectDetail{}, fmt.Errorf("name %q: %w", name, ErrNotFound)
	}
	return d, nil
}

// Document implements DocumentService.
func (c *Client) Document(ctx context.Context, ref string) (Document, error) {
	var resp DocumentResponse
	if err := c.get(ctx, "/api/document/"+url.PathEscape(ref), &resp); err != nil {
		return Document{}, err
	}
	return Document{Ref: ref, Sections: resp.Document.Paragraph}, nil
}

// Catalog implements CatalogProvider.
func (c *Client) Catalog(ctx context.Context) (*catalog.Store, error) {
	var f catalog.File
	if err := c.get(ctx, "/api/catalog", &f); err != nil {
		return nil, err
	}
	s, err := f.Store()
	if err != nil {
		return nil, fmt.Errorf("remote catalog: %w", err)
	}
	return s, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", "ls-skymap/"+version.Version)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("fetch %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status code: %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
