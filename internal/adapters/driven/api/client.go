// Package api implements the ContentSource port against the search
// backend's HTTP API. The backend is an opaque collaborator: two read
// endpoints, no retries, non-2xx responses surface as failures.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driven"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond caps client-side request rate.
	DefaultRequestsPerSecond = 10

	// maxErrorBody bounds how much of an error response is kept for
	// the user-facing message.
	maxErrorBody = 200
)

// Ensure Client implements the interface.
var _ driven.ContentSource = (*Client)(nil)

// Client talks to the search backend over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	tokens  oauth2.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithToken authenticates requests with a static bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		if token != "" {
			c.tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		}
	}
}

// WithRateLimit overrides the client-side requests-per-second cap.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("creating api client: %w: base URL required", domain.ErrInvalidInput)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name identifies the source for logging and display.
func (c *Client) Name() string {
	return "backend"
}

// FetchOriginal retrieves the raw bytes of a file by its URL-escaped
// path or name via GET /api/chat/file/{identifier}.
func (c *Client) FetchOriginal(ctx context.Context, identifier string) ([]byte, error) {
	if identifier == "" {
		return nil, fmt.Errorf("fetch original: %w: identifier required", domain.ErrInvalidInput)
	}

	endpoint := c.baseURL + "/api/chat/file/" + url.PathEscape(identifier)
	body, err := c.get(ctx, "file", endpoint)
	if err != nil {
		return nil, err
	}
	logger.Debug("fetched original content: %s (%d bytes)", identifier, len(body))
	return body, nil
}

// FetchIndexed retrieves the search-processed representation of a
// document via GET /api/document/indexed-content?document_id={id}.
func (c *Client) FetchIndexed(ctx context.Context, documentID string) (*domain.IndexedContent, error) {
	if documentID == "" {
		return nil, domain.ErrMissingDocumentID
	}

	endpoint := c.baseURL + "/api/document/indexed-content?document_id=" + url.QueryEscape(documentID)
	body, err := c.get(ctx, "indexed-content", endpoint)
	if err != nil {
		return nil, err
	}

	var indexed domain.IndexedContent
	if err := json.Unmarshal(body, &indexed); err != nil {
		return nil, fmt.Errorf("decoding indexed content: %w", err)
	}
	logger.Debug("fetched indexed content: %s (%d chunks)", documentID, indexed.ChunkCount)
	return &indexed, nil
}

// get performs one rate-limited, optionally authenticated GET.
func (c *Client) get(ctx context.Context, endpointName, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("resolving token: %w", err)
		}
		tok.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpointName, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%s endpoint: %w", endpointName, domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(endpointName, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpointName, err)
	}
	return body, nil
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	// Endpoint names which endpoint failed ("file" or "indexed-content").
	Endpoint string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Body is a snippet of the response body, if any.
	Body string
}

// newStatusError builds a StatusError from a response, keeping a short
// body snippet for the user-facing message.
func newStatusError(endpoint string, resp *http.Response) *StatusError {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(snippet)),
	}
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s endpoint returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s endpoint returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
