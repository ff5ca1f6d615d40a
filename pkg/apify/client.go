// Package apify provides a client for running Apify actors synchronously.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.apify.com/v2"
	defaultActor   = "apify~website-metadata-extractor"
)

var (
	// ErrMissingToken is returned before any request when no API token is set.
	ErrMissingToken = eris.New("apify: api token is not configured")
	// ErrEmptyResponse is returned when the actor answers with an empty body.
	ErrEmptyResponse = eris.New("apify: empty response from scraper; the site may be blocking scrapers")
	// ErrUnexpectedFormat is returned when the body is valid JSON but not a list of items.
	ErrUnexpectedFormat = eris.New("apify: unexpected response format")
)

// Client runs a metadata actor and returns its dataset items.
type Client interface {
	RunSync(ctx context.Context, req RunRequest) ([]json.RawMessage, error)
}

// StartURL is a single seed URL for an actor run.
type StartURL struct {
	URL string `json:"url"`
}

// RunRequest is the actor input for POST /acts/{actor}/run-sync-get-dataset-items.
type RunRequest struct {
	StartURLs             []StartURL `json:"startUrls"`
	DisableDomainAnalysis bool       `json:"disableDomainAnalysis"`
}

// NewRunRequest builds the input for scraping a single page.
func NewRunRequest(targetURL string) RunRequest {
	return RunRequest{
		StartURLs:             []StartURL{{URL: targetURL}},
		DisableDomainAnalysis: false,
	}
}

// APIError is returned when Apify responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

// HTTPStatus exposes the response status for error classification.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

func (e *APIError) Error() string {
	return fmt.Sprintf("apify: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithActor overrides the actor that is run.
func WithActor(actor string) Option {
	return func(c *httpClient) {
		if actor != "" {
			c.actor = actor
		}
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	token   string
	baseURL string
	actor   string
	http    *http.Client
}

// NewClient creates a new Apify client. Timeouts are left to the caller's
// context so a run can be cancelled with a distinct timeout error.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		actor:   defaultActor,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) RunSync(ctx context.Context, req RunRequest) ([]json.RawMessage, error) {
	if c.token == "" {
		return nil, ErrMissingToken
	}

	buf, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal request")
	}

	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items", c.baseURL, url.PathEscape(c.actor))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apify: execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}

	if !json.Valid(data) {
		return nil, eris.New("apify: decode response: invalid JSON")
	}
	if data[0] != '[' {
		return nil, ErrUnexpectedFormat
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, eris.Wrap(err, "apify: decode response")
	}
	return items, nil
}
