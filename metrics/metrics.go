// Package metrics exposes counters for quality evaluations and lifecycle signals.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ythdp/ythdp/log"
)

var (
	// EvaluationsTotal counts controller evaluations, labelled by mode (automatic, forced) and outcome.
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ythdp",
		Name:      "evaluations_total",
		Help:      "Quality evaluations by mode and outcome.",
	}, []string{"mode", "outcome"})

	// SignalsTotal counts lifecycle signals by kind, before debouncing.
	SignalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ythdp",
		Name:      "signals_total",
		Help:      "Lifecycle signals received by kind.",
	}, []string{"signal"})

	// PlayerChangesTotal counts player acquisitions, including the first one.
	PlayerChangesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ythdp",
		Name:      "player_changes_total",
		Help:      "Times a new player instance was acquired.",
	})
)

// Register adds the counters to reg. It panics if they are already registered there.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		EvaluationsTotal,
		SignalsTotal,
		PlayerChangesTotal,
	)
}

// Recorder forwards controller and lifecycle observations to the counters.
type Recorder struct{}

// Observe counts one evaluation outcome.
func (Recorder) Observe(mode, outcome string) {
	EvaluationsTotal.WithLabelValues(mode, outcome).Inc()
}

// Signal counts one lifecycle signal.
func (Recorder) Signal(name string) {
	SignalsTotal.WithLabelValues(name).Inc()
}

// PlayerChanged counts one player acquisition.
func (Recorder) PlayerChanged() {
	PlayerChangesTotal.Inc()
}

// Serve exposes the default registry on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Infof("serving metrics on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
