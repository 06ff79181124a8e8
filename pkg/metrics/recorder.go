package metrics

import (
	"strconv"
	"time"
)

// Recorder traduz os eventos do Manager em chamadas ao Provider.
// Erros do Provider são ignorados: métricas nunca falham uma requisição.
type Recorder struct {
	provider Provider
}

// NewRecorder cria um Recorder; provider nil desliga o envio.
func NewRecorder(provider Provider) *Recorder {
	return &Recorder{provider: provider}
}

// ObserveRequest registra uma requisição concluída (com ou sem erro).
func (r *Recorder) ObserveRequest(method, host string, status int, elapsed time.Duration, err error) {
	if r == nil || r.provider == nil {
		return
	}
	tags := []string{"method:" + method, "host:" + host}
	if err != nil {
		_ = r.provider.Count(RequestErrors, 1, tags)
	} else {
		tags = append(tags, "status:"+strconv.Itoa(status))
	}
	_ = r.provider.Count(RequestsTotal, 1, tags)
	_ = r.provider.Histogram(RequestLatency, float64(elapsed.Milliseconds()), tags)
}

// ObserveCacheHit registra uma resposta servida pelo cache.
func (r *Recorder) ObserveCacheHit(method, host string) {
	if r == nil || r.provider == nil {
		return
	}
	_ = r.provider.Count(CacheHits, 1, []string{"method:" + method, "host:" + host})
}

// ObserveInFlight registra quantas requisições ocupam o pool de workers.
func (r *Recorder) ObserveInFlight(n int64) {
	if r == nil || r.provider == nil {
		return
	}
	_ = r.provider.Gauge(WorkersInFlight, float64(n), nil)
}
