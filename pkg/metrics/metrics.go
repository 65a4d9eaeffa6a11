package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "media_pacing"

// Metrics concentra os coletores da API. Um *Metrics nil é válido e não registra nada,
// o que simplifica os testes dos componentes que recebem métricas opcionais.
type Metrics struct {
	registry *prometheus.Registry

	// Pool do warehouse
	PoolOpenConnections prometheus.Gauge
	PoolAcquires        *prometheus.CounterVec
	QueryOutcomes       *prometheus.CounterVec
	QueryRetries        *prometheus.CounterVec
	QueryDuration       prometheus.Histogram

	// Cache de pacing
	CacheLookups *prometheus.CounterVec
}

// New cria os coletores num registry próprio, isolado do registry global do processo
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		PoolOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "warehouse",
			Name:      "pool_open_connections",
			Help:      "Number of physical warehouse connections currently open",
		}),
		PoolAcquires: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "warehouse",
			Name:      "pool_acquires_total",
			Help:      "Connection acquisitions by result",
		}, []string{"result"}),
		QueryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "warehouse",
			Name:      "queries_total",
			Help:      "Executed statements by outcome",
		}, []string{"outcome"}),
		QueryRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "warehouse",
			Name:      "query_retries_total",
			Help:      "Retries of transient warehouse failures by reason",
		}, []string{"reason"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "warehouse",
			Name:      "query_duration_seconds",
			Help:      "Wall clock time of a full execute call, retries included",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pacing_cache",
			Name:      "lookups_total",
			Help:      "Pacing cache lookups by resulting state",
		}, []string{"state"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PoolOpenConnections,
		m.PoolAcquires,
		m.QueryOutcomes,
		m.QueryRetries,
		m.QueryDuration,
		m.CacheLookups,
	)

	return m
}

// Handler expõe o registry no formato de texto do Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.DefaultGatherer
	}
	return m.registry
}

func (m *Metrics) SetOpenConnections(n int) {
	if m == nil {
		return
	}
	m.PoolOpenConnections.Set(float64(n))
}

func (m *Metrics) Acquire(result string) {
	if m == nil {
		return
	}
	m.PoolAcquires.WithLabelValues(result).Inc()
}

func (m *Metrics) Query(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.QueryOutcomes.WithLabelValues(outcome).Inc()
	m.QueryDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) Retry(reason string) {
	if m == nil {
		return
	}
	m.QueryRetries.WithLabelValues(reason).Inc()
}

func (m *Metrics) CacheLookup(state string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(state).Inc()
}
