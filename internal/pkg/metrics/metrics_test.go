package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.ReservationsTotal.WithLabelValues("success").Inc()
	m.ReservationsTotal.WithLabelValues("success").Inc()
	m.ReservationsTotal.WithLabelValues("store_error").Inc()
	m.SeatSelectionsTotal.WithLabelValues("selected").Inc()
	m.OccupancyLoadsTotal.WithLabelValues("error").Inc()
	m.JokesServedTotal.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("store_error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SeatSelectionsTotal.WithLabelValues("selected")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OccupancyLoadsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.JokesServedTotal))
}

func TestNewWithRegistry_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWithRegistry(reg)

	assert.Panics(t, func() {
		NewWithRegistry(reg)
	})
}
