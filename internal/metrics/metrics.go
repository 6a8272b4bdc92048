package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jornada"

// Recorder collects domain counters for fixtures, rosters and selection counters.
// A nil *Recorder is valid and records nothing, so tests can skip wiring it.
type Recorder struct {
	registry         *prometheus.Registry
	fixturesInserted *prometheus.CounterVec
	fixtureConflicts prometheus.Counter
	rosterChanges    *prometheus.CounterVec
	selectionChanges *prometheus.CounterVec
}

// NewRecorder registers the service collectors on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: registry,
		fixturesInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixtures_inserted_total",
			Help:      "Matches inserted, by ingestion mode.",
		}, []string{"mode"}),
		fixtureConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_conflicts_total",
			Help:      "Structured inserts rejected because a team was already scheduled in the jornada.",
		}),
		rosterChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_changes_total",
			Help:      "User roster mutations that changed state, by operation.",
		}, []string{"op"}),
		selectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_counter_changes_total",
			Help:      "Team selection counter adjustments, by direction.",
		}, []string{"direction"}),
	}

	registry.MustRegister(r.fixturesInserted, r.fixtureConflicts, r.rosterChanges, r.selectionChanges)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) FixturesInserted(mode string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.fixturesInserted.WithLabelValues(mode).Add(float64(n))
}

func (r *Recorder) FixtureConflict() {
	if r == nil {
		return
	}
	r.fixtureConflicts.Inc()
}

func (r *Recorder) RosterChanged(op string) {
	if r == nil {
		return
	}
	r.rosterChanges.WithLabelValues(op).Inc()
}

func (r *Recorder) SelectionAdjusted(delta int) {
	if r == nil || delta == 0 {
		return
	}
	direction := "increment"
	if delta < 0 {
		direction = "decrement"
	}
	r.selectionChanges.WithLabelValues(direction).Inc()
}
