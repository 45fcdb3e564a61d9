package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserveGeneration(t *testing.T) {
	m := New()
	m.ObserveGeneration("generated", 150*time.Millisecond)
	m.ObserveGeneration("generated", time.Second)
	m.ObserveGeneration("failed", time.Millisecond)

	out := scrape(t, m)
	assert.Contains(t, out, `lexicon_generations_total{kind="generated"} 2`)
	assert.Contains(t, out, `lexicon_generations_total{kind="failed"} 1`)
	assert.Contains(t, out, `lexicon_generation_duration_seconds_count{kind="generated"} 2`)
}

func TestObserveLookup(t *testing.T) {
	m := New()
	m.ObserveLookup("created")
	m.ObserveLookup("appended")
	m.ObserveLookup("appended")

	out := scrape(t, m)
	assert.Contains(t, out, `lexicon_lookups_total{outcome="created"} 1`)
	assert.Contains(t, out, `lexicon_lookups_total{outcome="appended"} 2`)
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveLookup("created")
	assert.NotContains(t, scrape(t, b), `lexicon_lookups_total{outcome="created"}`)
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, http.StatusOK)
	assert.Contains(t, scrape(t, m), `lexicon_http_requests_total{method="POST",status="OK"} 1`)
}
