package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       string
		wantStatus int
		wantErr    string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"model":"llama3.1","response":"{\"company_name\":\"Acme\"}","done":true}`,
			want:   `{"company_name":"Acme"}`,
		},
		{
			name:       "model missing",
			status:     http.StatusNotFound,
			body:       `{"error":"model 'x' not found"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:    "malformed",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/api/generate", r.URL.Path)

				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "llama3.1", req["model"])
				assert.Equal(t, "describe acme", req["prompt"])
				assert.Equal(t, false, req["stream"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL + "/")
			resp, err := c.Generate(context.Background(), GenerateRequest{Prompt: "describe acme", Stream: true})

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
				assert.Equal(t, tt.want, resp.Response)
				assert.True(t, resp.Done)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()
	c := NewClient("", WithModel("mistral"))
	hc := c.(*httpClient)
	assert.Equal(t, defaultBaseURL, hc.baseURL)
	assert.Equal(t, "mistral", hc.model)
}
