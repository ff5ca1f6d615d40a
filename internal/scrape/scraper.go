// Package scrape fetches homepage metadata for the brand pipeline.
package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/model"
)

// DefaultTimeout bounds a single metadata scrape.
const DefaultTimeout = 90 * time.Second

var (
	// ErrTimeout is returned when the scrape does not finish within its timeout.
	ErrTimeout = eris.New("request timed out")
	// ErrNotConfigured is returned when the scraping service has no credential.
	ErrNotConfigured = eris.New("scraping service credential is not configured")
	// ErrEmptyResponse is returned for an empty body.
	ErrEmptyResponse = eris.New("empty response from scraper; the site may be blocking scrapers")
	// ErrUnexpectedFormat is returned when the response is not a list of results.
	ErrUnexpectedFormat = eris.New("unexpected response format")
	// ErrBlocked is returned when the page is an anti-bot challenge.
	ErrBlocked = eris.New("page is blocking automated access")
)

// MetadataScraper fetches a URL and returns its structured metadata. There is
// no fallback behind it: an error means the run has nothing to work with.
type MetadataScraper interface {
	Scrape(ctx context.Context, targetURL string) (*model.RawMetadata, error)
	Name() string
}

// StatusError reports a non-success HTTP status from the scraping backend.
type StatusError struct {
	Source     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Source, e.StatusCode)
}

// HTTPStatus exposes the response status for error classification.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

// withTimeout applies the scrape timeout, falling back to DefaultTimeout.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// timedOut reports whether the scrape context hit its own deadline.
func timedOut(ctx context.Context) bool {
	return eris.Is(ctx.Err(), context.DeadlineExceeded)
}
