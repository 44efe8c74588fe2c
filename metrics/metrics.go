// Package metrics exposes gameplay counters in the Prometheus text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

const namespace = "minesweeper"

// Recorder implements service.Recorder on top of a private registry
type Recorder struct {
	registry *prometheus.Registry

	sessionsCreated *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	actions         *prometheus.CounterVec
	gamesFinished   *prometheus.CounterVec
	gameDuration    *prometheus.HistogramVec
}

// New builds a Recorder. Go runtime and process collectors are registered
// alongside the game metrics.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created, by preset.",
		}, []string{"config"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Player actions, by kind and whether they changed the board.",
		}, []string{"action", "result"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that ended, by outcome.",
		}, []string{"phase"}),
		gameDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_duration_seconds",
			Help:      "Time from start to game over.",
			Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"phase"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.sessionsCreated,
		r.activeSessions,
		r.actions,
		r.gamesFinished,
		r.gameDuration,
	)
	return r
}

// SessionCreated counts a new session for the given preset
func (r *Recorder) SessionCreated(configName string) {
	r.sessionsCreated.WithLabelValues(configName).Inc()
	r.activeSessions.Inc()
}

// SessionDeleted lowers the active session gauge
func (r *Recorder) SessionDeleted() {
	r.activeSessions.Dec()
}

// ActionPerformed counts one reveal, flag or restart
func (r *Recorder) ActionPerformed(action string, success bool) {
	result := "noop"
	if success {
		result = "applied"
	}
	r.actions.WithLabelValues(action, result).Inc()
}

// GameFinished records the outcome and duration of a game
func (r *Recorder) GameFinished(phase engine.Phase, elapsed time.Duration) {
	r.gamesFinished.WithLabelValues(string(phase)).Inc()
	r.gameDuration.WithLabelValues(string(phase)).Observe(elapsed.Seconds())
}

// Handler serves the registry for scraping
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry for extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
