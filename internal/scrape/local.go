package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/brand-cli/internal/model"
)

const (
	localUserAgent  = "Mozilla/5.0 (compatible; BrandBot/1.0)"
	maxLocalBodyLen = 2 << 20
)

// LocalScraper fetches the homepage directly and extracts metadata from the
// HTML. It needs no credential.
type LocalScraper struct {
	client  *http.Client
	timeout time.Duration
}

// NewLocalScraper creates a LocalScraper. A nil client uses a default one.
func NewLocalScraper(client *http.Client, timeout time.Duration) *LocalScraper {
	if client == nil {
		client = &http.Client{}
	}
	return &LocalScraper{client: client, timeout: timeout}
}

// Name implements MetadataScraper.
func (l *LocalScraper) Name() string { return "local" }

// Scrape implements MetadataScraper.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*model.RawMetadata, error) {
	base, err := url.Parse(targetURL)
	if err != nil {
		return nil, eris.Wrap(err, "local: parse url")
	}

	ctx, cancel := withTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local: create request")
	}
	req.Header.Set("User-Agent", localUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := l.client.Do(req)
	if err != nil {
		if timedOut(ctx) {
			return nil, eris.Wrapf(ErrTimeout, "local: fetch %s", targetURL)
		}
		return nil, eris.Wrap(err, "local: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLocalBodyLen))
	if err != nil {
		if timedOut(ctx) {
			return nil, eris.Wrapf(ErrTimeout, "local: read %s", targetURL)
		}
		return nil, eris.Wrap(err, "local: read body")
	}

	if block := DetectBlock(resp, body); block != BlockNone {
		return nil, eris.Wrapf(ErrBlocked, "local: %s", block)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Source: "local", StatusCode: resp.StatusCode}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, eris.Wrap(ErrEmptyResponse, "local")
	}

	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}
	return ParseHTML(body, base)
}

// ParseHTML extracts RawMetadata from an HTML document. Relative favicon and
// image URLs are resolved against base.
func ParseHTML(body []byte, base *url.URL) (*model.RawMetadata, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "local: parse html")
	}

	meta := &model.RawMetadata{MetaTags: make(map[string]model.MetaValue)}
	if base != nil {
		meta.URL = base.String()
	}

	if title := collapse(doc.Find("head title").First().Text()); title != "" {
		meta.MetaTags["title"] = model.MetaValue{title}
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		key := metaKey(s)
		if key == "" {
			return
		}
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		if strings.HasSuffix(key, ":image") || strings.HasSuffix(key, ":image:url") {
			content = resolve(base, content)
		}
		meta.MetaTags[key] = append(meta.MetaTags[key], content)
	})

	meta.Favicon = findFavicon(doc, base)

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var entries model.StructuredData
		if err := json.Unmarshal([]byte(s.Text()), &entries); err != nil {
			return
		}
		for i := range entries {
			for j, logo := range entries[i].Logo {
				entries[i].Logo[j] = resolve(base, logo)
			}
		}
		meta.StructuredData = append(meta.StructuredData, entries...)
	})

	meta.AllH1s = headings(doc, "h1")
	meta.AllH2s = headings(doc, "h2")
	if len(meta.AllH1s) > 0 {
		meta.FirstH1 = meta.AllH1s[0]
	}

	doc.Find("script, style, noscript, template").Remove()
	meta.WordCount = len(strings.Fields(doc.Find("body").Text()))

	return meta, nil
}

func metaKey(s *goquery.Selection) string {
	for _, attr := range []string{"property", "name", "itemprop"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// findFavicon prefers rel="icon" over apple-touch-icon.
func findFavicon(doc *goquery.Document, base *url.URL) string {
	var icon, touch string
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		for _, rel := range strings.Fields(strings.ToLower(s.AttrOr("rel", ""))) {
			switch rel {
			case "icon":
				if icon == "" {
					icon = href
				}
			case "apple-touch-icon":
				if touch == "" {
					touch = href
				}
			}
		}
	})
	if icon == "" {
		icon = touch
	}
	if icon == "" {
		return ""
	}
	return resolve(base, icon)
}

func headings(doc *goquery.Document, tag string) []string {
	var out []string
	doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resolve(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
