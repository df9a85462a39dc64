// Package retrieval is the HTTP port to the program retrieval service: free-text
// citizen queries in, candidate program IDs with relevance scores out. The
// engine treats ranking as opaque; it only decides eligibility afterwards.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	id "sahaay/pkg/domain"
	domainerrors "sahaay/pkg/domain-errors"
)

// Match is one candidate program returned by the retrieval service.
type Match struct {
	ProgramID id.ProgramID `json:"program_id"`
	Score     float64      `json:"score"`
}

// Searcher is the port the discovery service consumes.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
}

// Client calls the retrieval service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a retrieval client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Matches []Match `json:"matches"`
}

// Search returns the top candidate programs for a free-text query.
func (c *Client) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	payload, err := json.Marshal(searchRequest{Query: query, TopK: topK})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to encode search request")
	}

	url := fmt.Sprintf("%s/api/v1/search", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, domainerrors.Wrap(err, domainerrors.CodeTimeout, "retrieval request timed out")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "retrieval service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, domainerrors.New(domainerrors.CodeUnauthorized, "retrieval service rejected credentials")
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return nil, domainerrors.New(domainerrors.CodeUnavailable, "retrieval service unavailable")
	default:
		return nil, domainerrors.New(domainerrors.CodeInternal, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	var out searchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to parse response")
	}
	return out.Matches, nil
}
