// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups HTTP and business collectors. A nil *Metrics is valid and
// records nothing, so services can be built without it in tests.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	movimientos  *prometheus.CounterVec
	facturas     *prometheus.CounterVec
	permisos     *prometheus.CounterVec
	jobs         *prometheus.CounterVec
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodega_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bodega_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		movimientos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodega_movimientos_stock_total",
			Help: "Stock movements recorded, by tipo.",
		}, []string{"tipo"}),
		facturas: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodega_facturas_total",
			Help: "Invoice lifecycle events, by evento.",
		}, []string{"evento"}),
		permisos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodega_permisos_decisiones_total",
			Help: "Permission gate decisions, by resultado.",
		}, []string{"resultado"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bodega_jobs_total",
			Help: "Async jobs processed, by queue and resultado.",
		}, []string{"queue", "resultado"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.movimientos, m.facturas, m.permisos, m.jobs)
	return m
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// IncMovimiento counts a committed stock movement.
func (m *Metrics) IncMovimiento(tipo string) {
	if m == nil {
		return
	}
	m.movimientos.WithLabelValues(normalize(tipo)).Inc()
}

// IncFactura counts an invoice event: emitida, anulada, restaurada, pagada.
func (m *Metrics) IncFactura(evento string) {
	if m == nil {
		return
	}
	m.facturas.WithLabelValues(normalize(evento)).Inc()
}

// IncPermiso counts a gate decision: permitido, denegado, bootstrap, bypass.
func (m *Metrics) IncPermiso(resultado string) {
	if m == nil {
		return
	}
	m.permisos.WithLabelValues(normalize(resultado)).Inc()
}

// IncJob counts a processed async job: ok, reintento, dlq.
func (m *Metrics) IncJob(queue, resultado string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(queue, normalize(resultado)).Inc()
}

func normalize(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" {
		return "desconocido"
	}
	return label
}
