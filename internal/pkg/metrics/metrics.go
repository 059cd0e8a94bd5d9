package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters the site exports on /metrics.
type Metrics struct {
	// method, path, status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// status: success, invalid, store_error
	ReservationsTotal *prometheus.CounterVec

	// result: selected, deselected, rejected
	SeatSelectionsTotal *prometheus.CounterVec

	// result: success, error
	OccupancyLoadsTotal *prometheus.CounterVec

	JokesServedTotal prometheus.Counter
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Total number of reservation submissions",
			},
			[]string{"status"},
		),
		SeatSelectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_selections_total",
				Help: "Total number of seat clicks",
			},
			[]string{"result"},
		),
		OccupancyLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "occupancy_loads_total",
				Help: "Total number of full guest list fetches",
			},
			[]string{"result"},
		),
		JokesServedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "jokes_served_total",
				Help: "Total number of jokes handed out",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.SeatSelectionsTotal,
		m.OccupancyLoadsTotal,
		m.JokesServedTotal,
	)

	return m
}
