package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeHTML = `<!doctype html>
<html>
<head>
  <title>  Acme Robotics | Home </title>
  <meta property="og:title" content="Acme Robotics">
  <meta property="og:description" content="Robots for every warehouse.">
  <meta property="og:image" content="/img/social.png">
  <meta name="twitter:image" content="https://cdn.acme.com/tw.png">
  <meta name="description" content="We build robots.">
  <meta property="og:locale:alternate" content="fr_FR">
  <meta property="og:locale:alternate" content="de_DE">
  <link rel="apple-touch-icon" href="/touch.png">
  <link rel="shortcut icon" href="/favicon.ico">
  <script type="application/ld+json">
    {"@context":"https://schema.org","@graph":[
      {"@type":"WebSite","name":"Acme site"},
      {"@type":"Organization","name":"Acme Robotics Inc","logo":{"@type":"ImageObject","url":"/logo.svg"}}
    ]}
  </script>
  <script type="application/ld+json">not json</script>
</head>
<body>
  <h1>Build the   future</h1>
  <h2>Join our team</h2>
  <h2></h2>
  <h2>Life at Acme</h2>
  <p>Five words of body text.</p>
  <script>var ignored = "lots of words here";</script>
</body>
</html>`

func TestParseHTML(t *testing.T) {
	base, err := url.Parse("https://acme.com/")
	require.NoError(t, err)

	meta, err := ParseHTML([]byte(acmeHTML), base)
	require.NoError(t, err)

	assert.Equal(t, "https://acme.com/", meta.URL)
	assert.Equal(t, "Acme Robotics | Home", meta.Meta("title"))
	assert.Equal(t, "Acme Robotics", meta.Meta("og:title"))
	assert.Equal(t, "https://acme.com/img/social.png", meta.Meta("og:image"))
	assert.Equal(t, "https://cdn.acme.com/tw.png", meta.Meta("twitter:image"))
	assert.Equal(t, "We build robots.", meta.Meta("description"))
	assert.Len(t, meta.MetaTags["og:locale:alternate"], 2)

	assert.Equal(t, "https://acme.com/favicon.ico", meta.FaviconURL())

	require.Len(t, meta.StructuredData, 2)
	assert.Equal(t, "Acme site", meta.StructuredName())
	assert.Equal(t, "https://acme.com/logo.svg", meta.StructuredLogo())

	assert.Equal(t, "Build the future", meta.Heading())
	assert.Equal(t, []string{"Join our team", "Life at Acme"}, meta.AllH2s)
	assert.Equal(t, 14, meta.WordCount)
}

func TestParseHTML_TouchIconFallback(t *testing.T) {
	base, _ := url.Parse("https://acme.com/careers/")
	meta, err := ParseHTML([]byte(`<html><head><link rel="apple-touch-icon" href="touch.png"></head></html>`), base)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com/careers/touch.png", meta.Favicon)
}

func TestLocalScraper_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, localUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(acmeHTML))
	}))
	defer srv.Close()

	meta, err := NewLocalScraper(srv.Client(), time.Second).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Acme Robotics", meta.Meta("og:title"))
	assert.Equal(t, srv.URL+"/favicon.ico", meta.FaviconURL())
}

func TestLocalScraper_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("   "))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, eris.Is(err, ErrEmptyResponse))
			},
		},
		{
			name: "cloudflare challenge",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("cf-ray", "abc")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("<html>Checking your browser</html>"))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, eris.Is(err, ErrBlocked))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewLocalScraper(srv.Client(), time.Second).Scrape(context.Background(), srv.URL)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLocalScraper_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	defer srv.Close()
	defer close(done)

	_, err := NewLocalScraper(srv.Client(), 20*time.Millisecond).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrTimeout), "got %v", err)
}
