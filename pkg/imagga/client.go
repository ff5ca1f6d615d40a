// Package imagga provides a client for the Imagga color extraction API.
package imagga

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.imagga.com/v2"

// Client extracts dominant colors from an image URL.
type Client interface {
	Colors(ctx context.Context, imageURL string) (*ColorsResponse, error)
}

// ColorsResponse is the response from GET /colors.
type ColorsResponse struct {
	Result ColorsResult `json:"result"`
	Status Status       `json:"status"`
}

// ColorsResult wraps the color breakdown.
type ColorsResult struct {
	Colors ColorBreakdown `json:"colors"`
}

// ColorBreakdown lists the colors found in the image.
type ColorBreakdown struct {
	ImageColors      []Color `json:"image_colors"`
	BackgroundColors []Color `json:"background_colors,omitempty"`
	ForegroundColors []Color `json:"foreground_colors,omitempty"`
}

// Color is one reported color and the share of the image it covers.
type Color struct {
	HTMLCode   string  `json:"html_code"`
	Percentage float64 `json:"percentage"`
}

// Status is the API's own status envelope.
type Status struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// APIError is returned when Imagga responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

// HTTPStatus exposes the response status for error classification.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

func (e *APIError) Error() string {
	return fmt.Sprintf("imagga: HTTP %d: %s", e.StatusCode, e.Body)
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

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	key     string
	secret  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Imagga client authenticating with a key/secret pair.
func NewClient(key, secret string, opts ...Option) Client {
	c := &httpClient{
		key:     key,
		secret:  secret,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
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

func (c *httpClient) Colors(ctx context.Context, imageURL string) (*ColorsResponse, error) {
	q := url.Values{}
	q.Set("image_url", imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/colors?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "imagga: create request")
	}
	req.SetBasicAuth(c.key, c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "imagga: execute request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "imagga: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var out ColorsResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrap(err, "imagga: decode response")
	}
	return &out, nil
}
