package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/youth-hub/internal/models"
)

func fakeOllama(t *testing.T, reply string, status int) (*httptest.Server, chan generateRequest) {
	t.Helper()
	seen := make(chan generateRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen <- req
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Response: reply, Done: true})
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestOllamaMatch(t *testing.T) {
	srv, seen := fakeOllama(t, `{"matches":[{"id":2,"rationale":"Good fit."}]}`, http.StatusOK)
	c := NewOllamaClient(srv.URL, "test-model", 5*time.Second)

	recs, err := c.Match(context.Background(), "bio", []models.Opportunity{{ID: 2, Title: "T"}})
	require.NoError(t, err)
	assert.Equal(t, []models.AIRecommendation{{ID: 2, Rationale: "Good fit."}}, recs)

	req := <-seen
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, "json", req.Format)
	assert.False(t, req.Stream)
}

func TestOllamaGenerate(t *testing.T) {
	srv, seen := fakeOllama(t, "## Tips\n- Highlight SQL", http.StatusOK)
	c := NewOllamaClient(srv.URL, "", time.Second)
	assert.Equal(t, "llama3.2:latest", c.Model)

	text, err := c.Generate(context.Background(), models.Opportunity{Title: "T"}, "", ModeCV)
	require.NoError(t, err)
	assert.Equal(t, "## Tips\n- Highlight SQL", text)
	assert.Empty(t, (<-seen).Format)
}

func TestOllamaErrorStatus(t *testing.T) {
	srv, _ := fakeOllama(t, "", http.StatusInternalServerError)
	c := NewOllamaClient(srv.URL, "m", time.Second)

	_, err := c.GenerateCompletion(context.Background(), "hi", false)
	assert.ErrorContains(t, err, "status: 500")
}
