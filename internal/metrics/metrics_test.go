package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveHTTP("/v1/movimientos", "POST", 201, 150*time.Millisecond)
	m.IncMovimiento("Salida")
	m.IncMovimiento("salida")
	m.IncFactura("emitida")
	m.IncPermiso("bootstrap")
	m.IncJob("jobs:email", "ok")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "bodega_movimientos_stock_total", "tipo", "salida")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got)

	got, err = counterValue(mfs, "bodega_permisos_decisiones_total", "resultado", "bootstrap")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	got, err = counterValue(mfs, "bodega_http_requests_total", "status", "201")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got)

	mf := findFamily(mfs, "bodega_http_request_duration_seconds")
	require.NotNil(t, mf)
	assert.Greater(t, mf.GetMetric()[0].GetHistogram().GetSampleSum(), 0.0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncMovimiento("entrada")
		m.ObserveHTTP("", "GET", 200, time.Millisecond)
	})
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		for _, lp := range metric.GetLabel() {
			if lp.GetName() == label && lp.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
