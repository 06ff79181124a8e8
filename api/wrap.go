package api

import "context"

// Call é uma requisição parametrizada por A, pronta para ser agendada.
type Call[A any] func(ctx context.Context, args A) *Future

// WrapGet compõe um GetEndpoint com a função que monta a URL a partir dos
// argumentos.
func WrapGet[A any](e GetEndpoint, buildURL func(A) string) Call[A] {
	return func(ctx context.Context, args A) *Future {
		return e.Submit(ctx, buildURL(args))
	}
}

// WrapPost compõe um PostEndpoint com a função que monta corpo e query.
// Um erro de build vira um Future já concluído com esse erro.
func WrapPost[A any](e PostEndpoint, build func(A) ([]byte, map[string]any, error)) Call[A] {
	return func(ctx context.Context, args A) *Future {
		body, query, err := build(args)
		if err != nil {
			return failed(err)
		}
		return e.Submit(ctx, body, query)
	}
}

// Decoded transforma uma Call numa função síncrona que devolve o JSON
// decodificado (ver DecodeJSON).
func Decoded[A any](c Call[A], keys ...string) func(ctx context.Context, args A) (any, error) {
	return func(ctx context.Context, args A) (any, error) {
		return DecodeJSON(ctx, c(ctx, args), keys...)
	}
}
