package watson

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/storyline/ai"
	"github.com/poiesic/storyline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, handler http.HandlerFunc, opts ...ai.ConfigOption) *Analyzer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base := []ai.ConfigOption{
		ai.WithBackend(ai.BackendWatson),
		ai.WithWatsonURL(server.URL + "/instances/test/"),
		ai.WithWatsonAPIKey("secret"),
	}
	analyzer, err := newAnalyzer(ai.NewConfig(append(base, opts...)...), WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	return analyzer
}

func TestAnalyzeKeywords_Request(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/instances/test/v1/analyze", r.URL.Path)
		assert.Equal(t, "2021-08-01", r.URL.Query().Get("version"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "apikey", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req map[string]any
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Cats are mammals.", req["text"])
		assert.Equal(t, "en", req["language"])
		assert.Equal(t, map[string]any{"keywords": map[string]any{"limit": float64(4)}}, req["features"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"language":"en","keywords":[{"text":"cats","relevance":0.9},{"text":"mammals","relevance":0.8}]}`)
	}, ai.WithMaxKeywords(4))

	got, err := analyzer.AnalyzeKeywords(context.Background(), "Cats are mammals.")
	require.NoError(t, err)
	assert.Equal(t, []string{"cats", "mammals"}, ai.Terms(got))
	assert.Equal(t, 0.9, got[0].Relevance)
}

func TestAnalyzeKeywords_NoKeywords(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"language":"en","keywords":[]}`)
	})

	got, err := analyzer.AnalyzeKeywords(context.Background(), "It was.")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyzeKeywords_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":400,"error":"unsupported text language: unknown"}`)
	})

	_, err := analyzer.AnalyzeKeywords(context.Background(), "???")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAnalysis)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "unsupported text language")
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyzeKeywords_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"keywords":[{"text":"purr","relevance":1}]}`)
	})

	got, err := analyzer.AnalyzeKeywords(context.Background(), "Cats purr.")
	require.NoError(t, err)
	assert.Equal(t, []string{"purr"}, ai.Terms(got))
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyzeKeywords_GivesUpOnThrottling(t *testing.T) {
	var calls atomic.Int32
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := analyzer.AnalyzeKeywords(context.Background(), "Cats purr.")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAnalysis)
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnalyzeKeywords_MalformedBody(t *testing.T) {
	analyzer := newTestAnalyzer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"keywords":`)
	})

	_, err := analyzer.AnalyzeKeywords(context.Background(), "Cats purr.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	var analysisErr *core.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, "Cats purr.", analysisErr.Text)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(ai.NewConfig(
		ai.WithBackend(ai.BackendWatson),
		ai.WithWatsonURL("https://nlu.example.com"),
		ai.WithWatsonAPIKey("k"),
	))
	require.NoError(t, err)
	require.NotNil(t, provider.KeywordAnalyzer())
	assert.NoError(t, provider.Close())

	_, err = NewProvider(ai.NewConfig(ai.WithBackend(ai.BackendWatson)))
	assert.Error(t, err)
}
