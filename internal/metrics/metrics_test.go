package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersByLabel(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.IncidentProcessed("HIGH")
	m.IncidentProcessed("HIGH")
	m.IncidentProcessed("MEDIUM")
	m.StageFailed("notify")
	m.ObserveDuration(time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.processed.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.processed.WithLabelValues("MEDIUM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("notify")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.failures.WithLabelValues("store")))
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.IncidentProcessed("HIGH")
	m.StageFailed("store")
	m.ObserveDuration(time.Now())
}
