package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-matcher/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	oldURL := apiURL
	apiURL = srv.URL
	t.Cleanup(func() {
		apiURL = oldURL
		srv.Close()
	})
}

func TestCompleteSendsSamplingParameters(t *testing.T) {
	var body map[string]any
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"resumeScore\":70}"}}]}`))
	})

	client, err := NewClient("test-key", "gpt-4o-mini", time.Second)
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.NoError(t, err)
	assert.Equal(t, `{"resumeScore":70}`, got)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.2, body["temperature"], 1e-6)
	assert.InDelta(t, 0.8, body["top_p"], 1e-6)
	assert.NotContains(t, body, "top_k")
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
}

func TestCompleteOmitsSamplingForGPT5(t *testing.T) {
	var body map[string]any
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})

	client, err := NewClient("k", "gpt-5-mini", time.Second)
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.NoError(t, err)

	assert.NotContains(t, body, "temperature")
	assert.NotContains(t, body, "top_p")
}

func TestCompleteEmptyContent(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  "}}]}`))
	})

	client, err := NewClient("k", "gpt-4o-mini", time.Second)
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestCompleteAPIError(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	client, err := NewClient("k", "gpt-4o-mini", time.Second)
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "prompt", llm.DefaultGenerationConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient("", "gpt-4o", 0)
	assert.Error(t, err)
	_, err = NewClient("k", "", 0)
	assert.Error(t, err)
}
