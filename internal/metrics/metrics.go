// Package metrics exposes shopfront's Prometheus instrumentation. A Metrics
// value attaches to the state store as a hook and to the persistence wrapper
// as its Observer.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/shopfront/internal/persist"
	"github.com/five82/shopfront/internal/state"
)

const namespace = "shopfront"

// Metrics owns a private registry and the collectors registered on it.
type Metrics struct {
	registry *prometheus.Registry

	actions       *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	favorites     prometheus.Gauge
	items         prometheus.Gauge
	loads         *prometheus.CounterVec
	writes        *prometheus.CounterVec

	mu       sync.Mutex
	inflight map[string]time.Time
	now      func() time.Time
}

var _ persist.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions dispatched to the state store, by type.",
		}, []string{"type"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Completed product fetches, by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time from fetch pending to fulfilled or rejected.",
			Buckets:   prometheus.DefBuckets,
		}),
		favorites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "favorites",
			Help:      "Number of favorited product ids.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Number of products currently held.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "loads_total",
			Help:      "Rehydration attempts, by outcome.",
		}, []string{"outcome"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "writes_total",
			Help:      "Persisted state writes, by result.",
		}, []string{"result"}),
		inflight: make(map[string]time.Time),
		now:      time.Now,
	}
	m.registry.MustRegister(
		m.actions, m.fetches, m.fetchDuration,
		m.favorites, m.items, m.loads, m.writes,
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hook returns a state hook recording every dispatch.
func (m *Metrics) Hook() state.Hook {
	return func(_, next state.State, a state.Action) {
		m.actions.WithLabelValues(actionLabel(a.Type)).Inc()
		m.favorites.Set(float64(len(next.Favorites)))
		m.items.Set(float64(len(next.Items)))

		switch a.Type {
		case state.ActionFetchPending:
			m.mu.Lock()
			m.inflight[a.RequestID] = m.now()
			m.mu.Unlock()
		case state.ActionFetchFulfilled:
			m.finishFetch(a.RequestID, "fulfilled")
		case state.ActionFetchRejected:
			m.finishFetch(a.RequestID, "rejected")
		}
	}
}

// actionLabel folds unknown action types into "other" to bound label
// cardinality; the reducer accepts arbitrary types.
func actionLabel(t state.ActionType) string {
	switch t {
	case state.ActionFetchPending, state.ActionFetchFulfilled,
		state.ActionFetchRejected, state.ActionToggleFavorite:
		return string(t)
	}
	return "other"
}

func (m *Metrics) finishFetch(id, outcome string) {
	m.fetches.WithLabelValues(outcome).Inc()
	m.mu.Lock()
	started, ok := m.inflight[id]
	delete(m.inflight, id)
	m.mu.Unlock()
	if ok {
		m.fetchDuration.Observe(m.now().Sub(started).Seconds())
	}
}

// ObserveLoad implements persist.Observer.
func (m *Metrics) ObserveLoad(outcome string) {
	m.loads.WithLabelValues(outcome).Inc()
}

// ObserveWrite implements persist.Observer.
func (m *Metrics) ObserveWrite(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln, logger)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "component", "metrics", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
