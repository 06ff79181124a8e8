package api

import (
	"github.com/raywall/fast-rapidapi-toolkit/pkg/cache"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/observability"
)

// NewManagerFromApp monta um Manager com pool, cache e métricas descritos
// em cfg. A função devolvida fecha o provider de métricas e deve ser
// chamada ao fim do processo.
func NewManagerFromApp(cfg *config.AppConfig, opts ...Option) (*Manager, func() error, error) {
	provider, err := observability.SetupMetrics(cfg.Metrics)
	if err != nil {
		return nil, nil, err
	}

	base := []Option{
		WithMetrics(provider),
		WithCache(cache.FromConfig(cfg.Cache)),
	}
	m := NewManagerFromConfig(cfg.Manager, append(base, opts...)...)
	return m, provider.Close, nil
}
