package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeminiClient(ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gemini-2.0-flash",
	})
}

func TestGenerateRequestShape(t *testing.T) {
	var (
		gotPath   string
		gotAPIKey string
		gotBody   geminiRequest
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Bem-vindo à aventura."}]}}]}`))
	})

	reply, err := client.Generate(context.Background(), []Content{
		{Role: RoleUser, Text: "cenário"},
		{Role: RoleModel, Text: "entendido"},
		{Role: RoleUser, Text: "vamos começar"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bem-vindo à aventura.", reply)
	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	require.Len(t, gotBody.Contents, 3)
	assert.Equal(t, RoleUser, gotBody.Contents[0].Role)
	assert.Equal(t, "cenário", gotBody.Contents[0].Parts[0].Text)
	assert.Equal(t, RoleModel, gotBody.Contents[1].Role)
	assert.Equal(t, "vamos começar", gotBody.Contents[2].Parts[0].Text)
}

func TestGenerateUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), []Content{{Role: RoleUser, Text: "oi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestGenerateEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), []Content{{Role: RoleUser, Text: "oi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty gemini candidates")
}

func TestGenerateRejectsEmptyInput(t *testing.T) {
	client := NewGeminiClient(ClientConfig{BaseURL: "http://localhost", Model: "m"})
	_, err := client.Generate(context.Background(), nil)
	assert.Error(t, err)
}
