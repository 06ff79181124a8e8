package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por Prometheus ou Logging sem alterar o Manager.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pelo Manager.
const (
	RequestsTotal   = "requests.total"
	RequestErrors   = "requests.errors"
	RequestLatency  = "requests.latency_ms"
	CacheHits       = "cache.hits"
	WorkersInFlight = "workers.in_flight"
)
