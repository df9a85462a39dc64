// Package ocr is the HTTP client for the optical text extraction service.
// It satisfies the documents.TextExtractor port: scans go out as multipart
// uploads, raw text comes back.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "sahaay/pkg/domain-errors"
)

// DefaultMinTextLength is the shortest extraction accepted as a readable
// scan. Anything below it is treated as an unreadable document rather than
// matched against keywords.
const DefaultMinTextLength = 10

// Client calls the extraction service over HTTP.
type Client struct {
	baseURL       string
	minTextLength int
	httpClient    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMinTextLength overrides the readable-scan threshold.
func WithMinTextLength(n int) Option {
	return func(c *Client) {
		c.minTextLength = n
	}
}

// NewClient creates an extraction client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:       baseURL,
		minTextLength: DefaultMinTextLength,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// extractResponse is the extraction service's reply shape.
type extractResponse struct {
	Text string `json:"text"`
}

// ExtractText uploads the scan and returns its extracted text. A reply
// shorter than the minimum text length is an error: downstream keyword
// matching against near-empty text would fail with a misleading reason.
func (c *Client) ExtractText(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeNotFound, "failed to open uploaded file")
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to build upload")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read uploaded file")
	}
	if err := writer.Close(); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to build upload")
	}

	url := fmt.Sprintf("%s/api/v1/extract", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", domainerrors.Wrap(err, domainerrors.CodeTimeout, "text extraction timed out")
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeUnavailable, "text extraction service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read response body")
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusUnsupportedMediaType:
		return "", domainerrors.New(domainerrors.CodeInvalidInput, "extraction service rejected the file format")
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return "", domainerrors.New(domainerrors.CodeUnavailable, "text extraction service unavailable")
	default:
		return "", domainerrors.New(domainerrors.CodeInternal, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to parse response")
	}

	text := strings.TrimSpace(out.Text)
	if len(text) < c.minTextLength {
		return "", domainerrors.New(domainerrors.CodeInvalidInput, "too little text extracted from document")
	}
	return text, nil
}
