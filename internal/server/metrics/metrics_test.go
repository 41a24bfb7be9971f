package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue next
				}
			}
			return m
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return nil
}

func TestRecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest("/profile", http.MethodGet, http.StatusUnauthorized, 5*time.Millisecond)
	c.RecordRequest("/profile", http.MethodGet, http.StatusUnauthorized, 5*time.Millisecond)

	m := findMetric(t, reg, "csvdrop_http_requests_total", map[string]string{"route": "/profile", "status_code": "401"})
	assert.Equal(t, float64(2), m.GetCounter().GetValue())

	h := findMetric(t, reg, "csvdrop_http_request_duration_seconds", map[string]string{"route": "/profile"})
	assert.Equal(t, uint64(2), h.GetHistogram().GetSampleCount())
}

func TestRecordAuthAndUpload(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuth("login", OutcomeFailure)
	c.RecordUpload("inline", OutcomeSuccess, 10)
	c.RecordUpload("inline", OutcomeSuccess, 5)
	c.RecordUpload("presign", OutcomeSuccess, 0)

	assert.Equal(t, float64(1), findMetric(t, reg, "csvdrop_auth_events_total", map[string]string{"op": "login", "outcome": "failure"}).GetCounter().GetValue())
	assert.Equal(t, float64(2), findMetric(t, reg, "csvdrop_uploads_total", map[string]string{"mode": "inline"}).GetCounter().GetValue())
	assert.Equal(t, float64(15), findMetric(t, reg, "csvdrop_uploaded_bytes_total", nil).GetCounter().GetValue())
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuth("register", OutcomeSuccess)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `csvdrop_auth_events_total{op="register",outcome="success"} 1`)
}

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.RecordRequest("/", http.MethodGet, 200, time.Second)
		r.RecordAuth("login", OutcomeSuccess)
		r.RecordUpload("inline", OutcomeFailure, 0)
	})
}
