package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitpro/internal/convo"
	"fitpro/internal/kb"
	"fitpro/internal/metrics"
	"fitpro/internal/profile"
	"fitpro/internal/retrieval"
)

type zeroEmbedder struct{}

func (zeroEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{0, 0}, nil
}

func (zeroEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0, 0}
	}
	return out, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	index, err := kb.New([]string{"fact"}, [][]float64{{1, 0}})
	require.NoError(t, err)

	m := metrics.New("test")
	retriever := retrieval.New(index, zeroEmbedder{}, nil, m, logger)
	store := profile.Open(filepath.Join(t.TempDir(), "users.json"), logger)
	engine := convo.New(store, retriever, nil, nil, m, logger, 20, time.Minute)
	return NewServer(engine, m, logger, t.TempDir())
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"my name is alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"), "a session id is minted when absent")

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "Nice to meet you, Alice")
}

func TestChatEndpointKeepsSession(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	first := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"my name is bob"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, first)
	sessionID := rec.Header().Get("X-Session-ID")
	require.NotEmpty(t, sessionID)

	second := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hello"}`))
	second.Header.Set("X-Session-ID", sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, second)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Reply, "Hello Bob!")
	assert.Equal(t, sessionID, rec.Header().Get("X-Session-ID"))
}

func TestChatEndpointBadBody(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
