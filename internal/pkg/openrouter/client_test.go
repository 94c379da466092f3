package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "x-ai/grok-4-fast",
		Referer: "https://vku-student-manager-demo.vercel.app",
		Title:   "VKU Student Manager",
	})
}

func TestComplete(t *testing.T) {
	var gotAuth, gotReferer, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Chao ban!"}},
			},
		})
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Complete(context.Background(), []Message{
		{Role: "user", Content: "Xin chao"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Chao ban!", reply)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "https://vku-student-manager-demo.vercel.app", gotReferer)
	assert.Equal(t, "x-ai/grok-4-fast", gotModel)
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}
