package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue extracts the current value of a labelled counter.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, vec *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	g, err := vec.GetMetricWithLabelValues(labels...)
	require.NoError(t, err)
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestRecordSourceFetch(t *testing.T) {
	before := counterValue(t, NewsItemsFetchedTotal, "test-feed")
	RecordSourceFetch("test-feed", 3, nil)
	assert.Equal(t, before+3, counterValue(t, NewsItemsFetchedTotal, "test-feed"))

	beforeErr := counterValue(t, SourceFetchErrorsTotal, "test-feed")
	RecordSourceFetch("test-feed", 0, errors.New("boom"))
	assert.Equal(t, beforeErr+1, counterValue(t, SourceFetchErrorsTotal, "test-feed"))
}

func TestRecordDelivery(t *testing.T) {
	beforeOK := counterValue(t, DeliveriesTotal, "success")
	beforeFail := counterValue(t, DeliveriesTotal, "failure")

	RecordDelivery(true)
	RecordDelivery(false)

	assert.Equal(t, beforeOK+1, counterValue(t, DeliveriesTotal, "success"))
	assert.Equal(t, beforeFail+1, counterValue(t, DeliveriesTotal, "failure"))
}

func TestRecordHealth(t *testing.T) {
	RecordHealth("weather", true)
	assert.Equal(t, 1.0, gaugeValue(t, DependencyHealth, "weather"))

	RecordHealth("weather", false)
	assert.Equal(t, 0.0, gaugeValue(t, DependencyHealth, "weather"))
}

func TestRecordFallback(t *testing.T) {
	before := counterValue(t, DigestFallbacksTotal, "no_model")
	RecordFallback("no_model")
	assert.Equal(t, before+1, counterValue(t, DigestFallbacksTotal, "no_model"))
}
