package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.Requests.WithLabelValues("GET", "/", "200").Inc()
	m.CacheHits.Inc()
	m.CacheHits.Inc()

	if got := testutil.ToFloat64(m.CacheHits); got != 2 {
		t.Errorf("CacheHits = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, name := range []string{"yatube_http_requests_total", "yatube_cache_hits_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("Expected %s in exposition output", name)
		}
	}
}
