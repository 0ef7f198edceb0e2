package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue finds a counter sample by name and label set
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			matched := 0
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCollector_RecordUpstream(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpstream("openrouter", OutcomeSuccess, 300*time.Millisecond)
	c.RecordUpstream("openrouter", OutcomeSuccess, time.Second)
	c.RecordUpstream("openrouter", OutcomeUpstream, time.Second)

	assert.Equal(t, 2.0, counterValue(t, reg, "promptdesk_upstream_requests_total",
		map[string]string{"provider": "openrouter", "outcome": OutcomeSuccess}))
	assert.Equal(t, 1.0, counterValue(t, reg, "promptdesk_upstream_requests_total",
		map[string]string{"provider": "openrouter", "outcome": OutcomeUpstream}))
}

func TestCollector_RecordDocument(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDocument(OutcomeUnreadable)

	assert.Equal(t, 1.0, counterValue(t, reg, "promptdesk_documents_extracted_total",
		map[string]string{"outcome": OutcomeUnreadable}))
}

func TestCollector_MiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/"+id, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "promptdesk_http_requests_total",
		map[string]string{"method": "GET", "route": "/projects/{id}", "status": "404"}))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordDocument(OutcomeSuccess)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), "promptdesk_documents_extracted_total"))
}
