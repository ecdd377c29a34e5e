package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Move results recorded by ObserveMove.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
)

type Metrics struct {
	registry *prometheus.Registry

	GamesCreated    prometheus.Counter
	GamesFinished   *prometheus.CounterVec
	Moves           *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the game service collectors in a private registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_created_total",
			Help:      "Number of games created",
		}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Number of games that reached a terminal state",
		}, []string{"status"}),
		Moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Number of submitted moves by type and result",
		}, []string{"type", "result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"route", "code"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.GamesCreated,
		m.GamesFinished,
		m.Moves,
		m.RequestDuration,
	)

	return m
}

func (that *Metrics) IncGamesCreated() {
	that.GamesCreated.Inc()
}

func (that *Metrics) IncGamesFinished(status string) {
	that.GamesFinished.WithLabelValues(status).Inc()
}

func (that *Metrics) ObserveMove(moveType, result string) {
	that.Moves.WithLabelValues(moveType, result).Inc()
}

func (that *Metrics) ObserveRequest(route string, code int, duration time.Duration) {
	that.RequestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(duration.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{Registry: that.registry})
}
