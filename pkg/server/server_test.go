package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sacxy/codegraph/pkg/config"
	"github.com/Sacxy/codegraph/pkg/types"
)

type stubCodeGraph struct {
	pingErr error
}

func (s *stubCodeGraph) Answer(_ context.Context, query string) *types.QueryResult {
	return &types.QueryResult{
		Query:      query,
		Summary:    "stub answer",
		Confidence: 0.8,
		Metadata:   types.QueryMetadata{ExecutionID: "test-exec", Verified: true},
	}
}

func (s *stubCodeGraph) Retrieve(context.Context, string) (*types.RetrievalResult, error) {
	return &types.RetrievalResult{
		SeedNodeIDs: []string{"n1"},
		SubGraph:    types.NewSubGraph(),
		Scores:      map[string]float64{},
	}, nil
}

func (s *stubCodeGraph) Ping(context.Context) error { return s.pingErr }

func (s *stubCodeGraph) Close(context.Context) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 0

	s := New(cfg, &stubCodeGraph{})
	s.Setup()
	return s
}

func TestQueryEndpoint(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"query": "How does login work?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result types.QueryResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "How does login work?", result.Query)
	assert.Equal(t, "stub answer", result.Summary)
	assert.True(t, result.Metadata.Verified)
}

func TestQueryEndpointRejectsMissingQuery(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/query", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetrieveEndpoint(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"query": "AuthService"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/retrieve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/live", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
