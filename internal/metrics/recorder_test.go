package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder(prom.NewRegistry())

	r.ObserveMutation("add_time")
	r.ObserveMutation("add_time")
	r.ObserveMutation("reset")
	r.ObservePersistFailure()
	r.ObserveLoadFailure()
	r.ObserveExport("json")

	assert.Equal(t, 2.0, promtest.ToFloat64(r.mutations.WithLabelValues("add_time")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.mutations.WithLabelValues("reset")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.persistFailures))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.loadFailures))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.exports.WithLabelValues("json")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveMutation("x")
		r.ObservePersistFailure()
		r.ObserveLoadFailure()
		r.ObserveExport("json")
	})
}

func TestRecorderHandler(t *testing.T) {
	r := NewRecorder(nil)
	r.ObserveMutation("add_team")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `xctimer_session_mutations_total{op="add_team"} 1`)
}
