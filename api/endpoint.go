package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GetEndpoint envia requisições GET a um host do RapidAPI.
type GetEndpoint struct {
	m    *Manager
	host string
	memo bool
	ttl  time.Duration
}

// Memoize devolve uma cópia do endpoint que guarda respostas 2xx no cache
// do Manager por ttl (zero: sem expiração).
func (e GetEndpoint) Memoize(ttl time.Duration) GetEndpoint {
	e.memo, e.ttl = true, ttl
	return e
}

// Submit agenda o GET de rawURL e devolve imediatamente.
func (e GetEndpoint) Submit(ctx context.Context, rawURL string) *Future {
	headers := map[string]string{HeaderHost: e.host}
	if e.m.keyOnGet {
		headers[HeaderKey] = e.m.key
	}
	return e.m.submit(ctx, call{
		method:  http.MethodGet,
		host:    e.host,
		url:     rawURL,
		headers: headers,
		memo:    e.memo,
		ttl:     e.ttl,
	})
}

// PostEndpoint envia requisições POST a uma URL fixa de um host do RapidAPI.
type PostEndpoint struct {
	m    *Manager
	url  string
	host string
	memo bool
	ttl  time.Duration
}

// Memoize devolve uma cópia do endpoint que guarda respostas 2xx no cache
// do Manager por ttl (zero: sem expiração).
func (e PostEndpoint) Memoize(ttl time.Duration) PostEndpoint {
	e.memo, e.ttl = true, ttl
	return e
}

// Submit agenda o POST de body (JSON já serializado). Os parâmetros de
// query são codificados e anexados à URL do endpoint.
func (e PostEndpoint) Submit(ctx context.Context, body []byte, query map[string]any) *Future {
	return e.m.submit(ctx, call{
		method: http.MethodPost,
		host:   e.host,
		url:    withQuery(e.url, query),
		body:   body,
		headers: map[string]string{
			HeaderHost:        e.host,
			HeaderKey:         e.m.key,
			HeaderContentType: "application/json",
		},
		memo: e.memo,
		ttl:  e.ttl,
	})
}

// withQuery anexa query a rawURL com "?" ou "&". Valores nil viram string
// vazia; os demais são formatados com fmt.Sprint.
func withQuery(rawURL string, query map[string]any) string {
	if len(query) == 0 {
		return rawURL
	}
	values := make(url.Values, len(query))
	for k, v := range query {
		if v == nil {
			values.Set(k, "")
			continue
		}
		values.Set(k, fmt.Sprint(v))
	}

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + values.Encode()
}
