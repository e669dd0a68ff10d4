// Package metrics exposes Prometheus metrics for inspection and join
// operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smazurov/movcat/internal/events"
)

var (
	filesInspected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "movcat",
		Subsystem: "inspect",
		Name:      "files_total",
		Help:      "Files inspected",
	})

	extractFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movcat",
		Subsystem: "inspect",
		Name:      "failures_total",
		Help:      "Metadata extraction failures by error code",
	}, []string{"code"})

	findings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movcat",
		Subsystem: "compat",
		Name:      "findings_total",
		Help:      "Compatibility findings by category",
	}, []string{"category"})

	joinsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "movcat",
		Subsystem: "join",
		Name:      "started_total",
		Help:      "Join runs started",
	})

	joinsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "movcat",
		Subsystem: "join",
		Name:      "finished_total",
		Help:      "Join runs finished by result",
	}, []string{"result"})

	lastJoinDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "movcat",
		Subsystem: "join",
		Name:      "last_duration_seconds",
		Help:      "Wall-clock duration of the most recent join run",
	})
)

// RecordInspect counts an inspected file; code is empty on success.
func RecordInspect(code string) {
	filesInspected.Inc()
	if code != "" {
		extractFailures.WithLabelValues(code).Inc()
	}
}

// RecordFinding counts a compatibility finding.
func RecordFinding(category string) {
	findings.WithLabelValues(category).Inc()
}

// RecordJoinStarted counts the start of a join run.
func RecordJoinStarted() {
	joinsStarted.Inc()
}

// RecordJoinFinished counts the end of a join run and stores its
// duration.
func RecordJoinFinished(exitCode int, durationSeconds float64) {
	result := "success"
	if exitCode != 0 {
		result = "failure"
	}
	joinsFinished.WithLabelValues(result).Inc()
	lastJoinDuration.Set(durationSeconds)
}

// WireBus subscribes metric recorders to the event bus and returns an
// unsubscribe function.
func WireBus(bus *events.Bus) func() {
	unsubs := []func(){
		bus.Subscribe(func(e events.InspectDoneEvent) {
			RecordInspect(e.ErrorCode)
		}),
		bus.Subscribe(func(e events.FindingEvent) {
			RecordFinding(e.Category)
		}),
		bus.Subscribe(func(events.JoinStartedEvent) {
			RecordJoinStarted()
		}),
		bus.Subscribe(func(e events.JoinFinishedEvent) {
			RecordJoinFinished(e.ExitCode, e.DurationSeconds)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
