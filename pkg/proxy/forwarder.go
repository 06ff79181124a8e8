package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Response representa a resposta bruta de uma API do RapidAPI.
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
}

// Doer é o cliente HTTP usado pelo Manager: recebe método, URL, headers e
// corpo e devolve status e corpo. Implementações devem ser seguras para
// uso concorrente.
type Doer interface {
	Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error)
}

// PoolConfig limita o pool de conexões do Client.
type PoolConfig struct {
	// Hosts é o número de hosts distintos mantidos no pool.
	Hosts int
	// PerHost é o número de conexões ociosas mantidas por host. Conexões
	// além desse limite são abertas normalmente e descartadas ao final.
	PerHost int
	// Timeout é o tempo máximo de cada requisição.
	Timeout time.Duration
}

// DefaultPool espelha os limites históricos: 20 hosts, 10 conexões, 30s.
var DefaultPool = PoolConfig{Hosts: 20, PerHost: 10, Timeout: 30 * time.Second}

// Client é um Doer sobre net/http com pool de conexões limitado.
type Client struct {
	http *http.Client
}

// NewClient cria um Client com o pool descrito por cfg. Valores zerados
// assumem os de DefaultPool.
func NewClient(cfg PoolConfig) *Client {
	if cfg.Hosts <= 0 {
		cfg.Hosts = DefaultPool.Hosts
	}
	if cfg.PerHost <= 0 {
		cfg.PerHost = DefaultPool.PerHost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPool.Timeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.Hosts * cfg.PerHost
	transport.MaxIdleConnsPerHost = cfg.PerHost

	return &Client{http: &http.Client{Transport: transport, Timeout: cfg.Timeout}}
}

// Do envia a requisição e lê a resposta inteira. Status fora da faixa 2xx
// não são tratados como erro.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*Response, error) {
	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, payload)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar request: %w", err)
	}

	// User-Agent identifica as chamadas feitas pelo toolkit
	req.Header.Set("User-Agent", "FastRapidAPIToolkit/Manager")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na conexão com %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta de %s: %w", url, err)
	}

	respHeaders := make(map[string]string)
	for k, v := range resp.Header {
		if len(v) > 0 {
			respHeaders[k] = v[0]
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    respHeaders,
		Body:       respBody,
	}, nil
}
