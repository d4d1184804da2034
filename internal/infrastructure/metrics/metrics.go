// Package metrics expone los colectores Prometheus del servicio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmine_http_requests_total",
			Help: "Total de requests HTTP por método, ruta y código.",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadmine_http_request_duration_seconds",
			Help:    "Latencia de requests HTTP por método y ruta.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	pipelineDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadmine_pipeline_duration_seconds",
			Help:    "Duración de normalizar, inferir, filtrar, ordenar y paginar por operación.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation"},
	)

	pipelineRecords = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadmine_pipeline_records",
			Help:    "Registros cargados por ejecución del pipeline.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		},
		[]string{"operation"},
	)

	inferenceRecoveriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadmine_inference_recoveries_total",
			Help: "Registros cuya inferencia de categoría o servicios falló y quedó vacía.",
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmine_cache_lookups_total",
			Help: "Consultas a cache por clave y resultado (hit, miss, error).",
		},
		[]string{"key", "result"},
	)

	batchRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmine_batch_records_total",
			Help: "Registros procesados por los comandos batch, por job y resultado.",
		},
		[]string{"job", "result"},
	)

	integrationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadmine_integration_events_total",
			Help: "Eventos de campaña recibidos por tipo.",
		},
		[]string{"type"},
	)
)

// Handler expone las métricas para scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest registra un request terminado.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePipeline registra duración y tamaño de una ejecución del pipeline.
func ObservePipeline(operation string, records int, duration time.Duration) {
	pipelineDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
	pipelineRecords.WithLabelValues(operation).Observe(float64(records))
}

// IncInferenceRecovery cuenta un registro con inferencia fallida.
func IncInferenceRecovery() {
	inferenceRecoveriesTotal.Inc()
}

// ObserveCacheLookup cuenta un acceso a cache: result es hit, miss o error.
func ObserveCacheLookup(key, result string) {
	cacheLookupsTotal.WithLabelValues(key, result).Inc()
}

// AddBatchRecords suma registros procesados por un job batch.
func AddBatchRecords(job, result string, n int) {
	if n > 0 {
		batchRecordsTotal.WithLabelValues(job, result).Add(float64(n))
	}
}

// IncIntegrationEvent cuenta un evento de campaña aceptado.
func IncIntegrationEvent(eventType string) {
	integrationEventsTotal.WithLabelValues(eventType).Inc()
}
