package imagga

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantColors int
		wantStatus int
		wantErr    string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{"result":{"colors":{"image_colors":[
				{"html_code":"#ffffff","percentage":61.2},
				{"html_code":"#1a2b3c","percentage":30.1}
			]}},"status":{"text":"","type":"success"}}`,
			wantColors: 2,
		},
		{
			name:       "no colors",
			status:     http.StatusOK,
			body:       `{"result":{"colors":{}}}`,
			wantColors: 0,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"status":{"text":"bad credentials","type":"error"}}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "malformed",
			status:  http.StatusOK,
			body:    `{"result":`,
			wantErr: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/colors", r.URL.Path)
				assert.Equal(t, "https://acme.com/logo.png", r.URL.Query().Get("image_url"))

				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "key", user)
				assert.Equal(t, "secret", pass)

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient("key", "secret", WithBaseURL(srv.URL))
			resp, err := c.Colors(context.Background(), "https://acme.com/logo.png")

			switch {
			case tt.wantStatus != 0:
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Len(t, resp.Result.Colors.ImageColors, tt.wantColors)
			}
		})
	}
}

func TestColors_ParsesPercentages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"colors":{"image_colors":[{"html_code":"#5038ee","percentage":12.5}]}}}`))
	}))
	defer srv.Close()

	c := NewClient("k", "s", WithBaseURL(srv.URL))
	resp, err := c.Colors(context.Background(), "https://acme.com/a.png")
	require.NoError(t, err)
	require.Len(t, resp.Result.Colors.ImageColors, 1)
	assert.Equal(t, "#5038ee", resp.Result.Colors.ImageColors[0].HTMLCode)
	assert.InDelta(t, 12.5, resp.Result.Colors.ImageColors[0].Percentage, 0.0001)
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("k", "s")
	hc := c.(*httpClient)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, "k", hc.key)
	assert.Equal(t, "s", hc.secret)
}
