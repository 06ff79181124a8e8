package api

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/cache"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/metrics"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/proxy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Headers enviados ao RapidAPI.
const (
	HeaderHost        = "x-rapidapi-host"
	HeaderKey         = "x-rapidapi-key"
	HeaderContentType = "content-type"
)

// DefaultWorkers é o número padrão de requisições simultâneas.
const DefaultWorkers = 10

// Manager envia requisições ao RapidAPI de forma assíncrona, limitando a
// concorrência a um número fixo de workers e reaproveitando conexões.
//
// Um Manager é seguro para uso concorrente e deve ser compartilhado por
// todas as funções geradas da aplicação.
type Manager struct {
	key      string
	client   proxy.Doer
	workers  int64
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	logger   *zerolog.Logger
	recorder *metrics.Recorder
	cache    cache.Cache
	keyOnGet bool
}

// Option configura um Manager.
type Option func(*Manager)

// WithClient substitui o cliente HTTP (útil em testes).
func WithClient(client proxy.Doer) Option {
	return func(m *Manager) { m.client = client }
}

// WithWorkers define quantas requisições executam ao mesmo tempo.
// Valores menores que 1 são ignorados.
func WithWorkers(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.workers = int64(n)
		}
	}
}

// WithLogger define o logger usado pelo Manager. Sem ele, o logger global
// do zerolog é usado.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = &logger }
}

// WithMetrics envia latência, contagem e erros das requisições ao provider.
func WithMetrics(provider metrics.Provider) Option {
	return func(m *Manager) { m.recorder = metrics.NewRecorder(provider) }
}

// WithCache define o backend usado pelos endpoints memoizados.
func WithCache(c cache.Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithKeyOnGet faz as requisições GET também enviarem a chave da API.
// Por padrão apenas o POST a envia.
func WithKeyOnGet(enabled bool) Option {
	return func(m *Manager) { m.keyOnGet = enabled }
}

// NewManager cria um Manager autenticado com key.
func NewManager(key string, opts ...Option) *Manager {
	m := &Manager{
		key:     key,
		workers: DefaultWorkers,
		cache:   cache.NewMemory(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.client == nil {
		m.client = proxy.NewClient(proxy.DefaultPool)
	}
	m.sem = semaphore.NewWeighted(m.workers)
	return m
}

// NewManagerFromConfig cria um Manager com o pool e os workers de cfg.
// Options adicionais são aplicadas depois das derivadas da configuração.
func NewManagerFromConfig(cfg config.ManagerConfig, opts ...Option) *Manager {
	base := []Option{
		WithClient(proxy.NewClient(proxy.PoolConfig{
			Hosts:   cfg.Hosts,
			PerHost: cfg.PoolSize,
			Timeout: cfg.Timeout,
		})),
		WithWorkers(cfg.Workers),
		WithKeyOnGet(cfg.KeyOnGet),
	}
	return NewManager(cfg.APIKey, append(base, opts...)...)
}

// Get devolve o endpoint GET do host informado.
func (m *Manager) Get(host string) GetEndpoint {
	return GetEndpoint{m: m, host: host}
}

// Post devolve o endpoint POST de url no host informado.
func (m *Manager) Post(url, host string) PostEndpoint {
	return PostEndpoint{m: m, url: url, host: host}
}

func (m *Manager) log() *zerolog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return &log.Logger
}

// call é uma requisição pronta para ser enviada.
type call struct {
	method  string
	host    string
	url     string
	body    []byte
	headers map[string]string
	memo    bool
	ttl     time.Duration
}

// submit agenda c e devolve imediatamente o Future do resultado.
func (m *Manager) submit(ctx context.Context, c call) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture(cancel)
	go func() {
		defer cancel()
		f.resolve(m.execute(ctx, c))
	}()
	return f
}

func (m *Manager) execute(ctx context.Context, c call) (*proxy.Response, error) {
	logger := m.log().With().
		Str("request_id", uuid.NewString()).
		Str("method", c.method).
		Str("host", c.host).
		Logger()

	var key string
	if c.memo && m.cache != nil {
		var err error
		key, err = cache.FreezeKey(c.method, c.url, string(c.body))
		if err != nil {
			return nil, err
		}
		if resp, ok := m.cached(ctx, &logger, key); ok {
			m.recorder.ObserveCacheHit(c.method, c.host)
			return resp, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	m.recorder.ObserveInFlight(m.inFlight.Add(1))
	defer func() {
		m.recorder.ObserveInFlight(m.inFlight.Add(-1))
		m.sem.Release(1)
	}()

	start := time.Now()
	resp, err := m.client.Do(ctx, c.method, c.url, c.body, c.headers)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	m.recorder.ObserveRequest(c.method, c.host, status, elapsed, err)

	if err != nil {
		logger.Debug().Err(err).Str("url", c.url).Msg("falha na requisição")
		return nil, err
	}
	logger.Debug().
		Int("status", resp.StatusCode).
		Int64("duration", elapsed.Milliseconds()).
		Msg("requisição concluída")

	if key != "" && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		m.store(ctx, &logger, key, resp, c.ttl)
	}
	return resp, nil
}

// cached busca uma resposta memoizada. Falhas do cache viram cache miss.
func (m *Manager) cached(ctx context.Context, logger *zerolog.Logger, key string) (*proxy.Response, bool) {
	raw, ok, err := m.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("falha ao consultar cache")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp proxy.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		logger.Warn().Err(err).Msg("entrada de cache inválida")
		return nil, false
	}
	logger.Debug().Msg("resposta obtida do cache")
	return &resp, true
}

func (m *Manager) store(ctx context.Context, logger *zerolog.Logger, key string, resp *proxy.Response, ttl time.Duration) {
	raw, err := json.Marshal(resp)
	if err == nil {
		err = m.cache.Set(ctx, key, raw, ttl)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("falha ao gravar cache")
	}
}
