package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/pkg/apify"
)

// ApifyScraper runs the metadata actor and decodes its first dataset item.
type ApifyScraper struct {
	client  apify.Client
	timeout time.Duration
}

// NewApifyScraper wraps an Apify client. A zero timeout means DefaultTimeout.
func NewApifyScraper(client apify.Client, timeout time.Duration) *ApifyScraper {
	return &ApifyScraper{client: client, timeout: timeout}
}

// Name implements MetadataScraper.
func (a *ApifyScraper) Name() string { return "apify" }

// Scrape implements MetadataScraper. An empty dataset is not an error: it
// yields empty metadata.
func (a *ApifyScraper) Scrape(ctx context.Context, targetURL string) (*model.RawMetadata, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	items, err := a.client.RunSync(ctx, apify.NewRunRequest(targetURL))
	if err != nil {
		return nil, a.mapError(ctx, err)
	}
	if len(items) == 0 {
		return &model.RawMetadata{}, nil
	}

	first := bytes.TrimSpace(items[0])
	if len(first) == 0 || bytes.Equal(first, []byte("null")) {
		return &model.RawMetadata{}, nil
	}
	if first[0] != '{' {
		return nil, eris.Wrap(ErrUnexpectedFormat, "apify: result item is not an object")
	}

	var meta model.RawMetadata
	if err := json.Unmarshal(first, &meta); err != nil {
		return nil, eris.Wrap(err, "apify: decode metadata")
	}
	return &meta, nil
}

func (a *ApifyScraper) mapError(ctx context.Context, err error) error {
	if timedOut(ctx) {
		return eris.Wrapf(ErrTimeout, "apify: no response within %s", a.effectiveTimeout())
	}

	var apiErr *apify.APIError
	switch {
	case errors.As(err, &apiErr):
		return &StatusError{Source: "apify", StatusCode: apiErr.StatusCode, Body: apiErr.Body}
	case eris.Is(err, apify.ErrMissingToken):
		return eris.Wrap(ErrNotConfigured, "apify")
	case eris.Is(err, apify.ErrEmptyResponse):
		return eris.Wrap(ErrEmptyResponse, "apify")
	case eris.Is(err, apify.ErrUnexpectedFormat):
		return eris.Wrap(ErrUnexpectedFormat, "apify")
	default:
		return eris.Wrap(err, "apify: scrape")
	}
}

func (a *ApifyScraper) effectiveTimeout() time.Duration {
	if a.timeout <= 0 {
		return DefaultTimeout
	}
	return a.timeout
}
