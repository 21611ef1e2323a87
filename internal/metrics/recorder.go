package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts session store and export activity on its own registry
type Recorder struct {
	registry        *prom.Registry
	mutations       *prom.CounterVec
	persistFailures prom.Counter
	loadFailures    prom.Counter
	exports         *prom.CounterVec
}

// NewRecorder constructs and registers the xctimer metrics. A nil registry gets a fresh one.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		mutations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "xctimer",
			Name:      "session_mutations_total",
			Help:      "Session state changes by operation",
		}, []string{"op"}),
		persistFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "xctimer",
			Name:      "session_persist_failures_total",
			Help:      "Session writes that failed to reach storage",
		}),
		loadFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: "xctimer",
			Name:      "session_load_failures_total",
			Help:      "Stored sessions that could not be loaded or migrated",
		}),
		exports: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "xctimer",
			Name:      "exports_total",
			Help:      "Session exports by format",
		}, []string{"format"}),
	}
	reg.MustRegister(r.mutations, r.persistFailures, r.loadFailures, r.exports)
	return r
}

func (r *Recorder) ObserveMutation(op string) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op).Inc()
}

func (r *Recorder) ObservePersistFailure() {
	if r == nil {
		return
	}
	r.persistFailures.Inc()
}

func (r *Recorder) ObserveLoadFailure() {
	if r == nil {
		return
	}
	r.loadFailures.Inc()
}

// ObserveExport counts an export in the given format (json, share, qr, png)
func (r *Recorder) ObserveExport(format string) {
	if r == nil {
		return
	}
	r.exports.WithLabelValues(format).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
