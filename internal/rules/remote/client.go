package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sahaay/internal/rules"
	domainerrors "sahaay/pkg/domain-errors"
)

// Client implements rules.Source by calling an external scheme-registry
// service over HTTP. Unknown programs map to rules.ErrProgramUnknown so the
// repository degrades the same way it does for a static table.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ rules.Source = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates an HTTP-backed rule source.
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

// EligibilityRules fetches the eligibility rule set for a program.
func (c *Client) EligibilityRules(ctx context.Context, programID string) (*rules.RuleSet, error) {
	var rs rules.RuleSet
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/programs/%s/eligibility", c.baseURL, programID), &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// RequiredDocuments fetches the document requirements for a program.
func (c *Client) RequiredDocuments(ctx context.Context, programID string) ([]rules.DocumentSpec, error) {
	var specs []rules.DocumentSpec
	if err := c.get(ctx, fmt.Sprintf("%s/api/v1/programs/%s/documents", c.baseURL, programID), &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return domainerrors.Wrap(err, domainerrors.CodeTimeout, "scheme registry request timed out")
		}
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "scheme registry unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return rules.ErrProgramUnknown
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainerrors.New(domainerrors.CodeUnauthorized, "scheme registry rejected credentials")
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return domainerrors.New(domainerrors.CodeUnavailable, "scheme registry unavailable")
	default:
		return domainerrors.New(domainerrors.CodeInternal, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to parse response")
	}
	return nil
}
