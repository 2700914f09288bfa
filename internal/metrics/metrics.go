// Package metrics exposes reconciliation pass metrics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/speaker-autogroup/internal/logger"
	"github.com/oshokin/speaker-autogroup/internal/service/reconciler"
)

// Outcome is the result label of a pass.
type Outcome string

const (
	// OutcomeSuccess labels passes that returned no error.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure labels passes that returned an error.
	OutcomeFailure Outcome = "failure"
	// OutcomePanic labels passes that panicked.
	OutcomePanic Outcome = "panic"
)

const (
	namespace = "speaker_autogroup"
	subsystem = "reconciler"

	// readHeaderTimeout guards the metrics endpoint against slow clients.
	readHeaderTimeout = 5 * time.Second
	// shutdownTimeout bounds the graceful stop of the metrics endpoint.
	shutdownTimeout = 5 * time.Second
)

// Metrics holds the collectors updated after every pass.
type Metrics struct {
	passesTotal  *prometheus.CounterVec
	passDuration prometheus.Histogram
	discovered   prometheus.Gauge
	candidates   prometheus.Gauge
	joinsTotal   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		passesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "passes_total",
				Help:      "Total number of reconciliation passes by result",
			},
			[]string{"result"},
		),
		passDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pass_duration_seconds",
				Help:      "Duration of reconciliation passes in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
		),
		discovered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "discovered_speakers",
				Help:      "Number of speakers found by the last pass",
			},
		),
		candidates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ungrouped_candidates",
				Help:      "Number of speakers collected for a new group by the last pass",
			},
		),
		joinsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "joins_total",
				Help:      "Total number of join commands issued by kind",
			},
			[]string{"kind"},
		),
	}

	collectors := []prometheus.Collector{m.passesTotal, m.passDuration, m.discovered, m.candidates, m.joinsTotal}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// ObservePass records the outcome of one pass. A nil report only counts the pass.
func (m *Metrics) ObservePass(report *reconciler.Report, outcome Outcome, elapsed time.Duration) {
	m.passesTotal.WithLabelValues(string(outcome)).Inc()
	m.passDuration.Observe(elapsed.Seconds())

	if report == nil {
		return
	}

	m.discovered.Set(float64(report.Discovered))
	m.candidates.Set(float64(len(report.Candidates)))

	for _, j := range report.Joins {
		kind := "existing"
		if j.AdHoc {
			kind = "adhoc"
		}

		m.joinsTotal.WithLabelValues(kind).Inc()
	}
}

// Serve exposes gatherer on address under /metrics until ctx is cancelled.
func Serve(ctx context.Context, address string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		//nolint:contextcheck // The parent context is already cancelled here.
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Metrics server shutdown failed", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Metrics endpoint listening", "metrics_address", address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	<-done

	return nil
}
