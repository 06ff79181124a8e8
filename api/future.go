package api

import (
	"context"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/proxy"
)

// Future é o resultado pendente de uma requisição agendada no Manager.
type Future struct {
	done   chan struct{}
	cancel context.CancelFunc
	resp   *proxy.Response
	err    error
}

func newFuture(cancel context.CancelFunc) *Future {
	return &Future{done: make(chan struct{}), cancel: cancel}
}

// failed devolve um Future já concluído com err.
func failed(err error) *Future {
	f := newFuture(func() {})
	f.resolve(nil, err)
	return f
}

func (f *Future) resolve(resp *proxy.Response, err error) {
	f.resp, f.err = resp, err
	close(f.done)
}

// Await espera a resposta. Se ctx terminar antes, devolve ctx.Err() sem
// cancelar a requisição; use Cancel para isso.
func (f *Future) Await(ctx context.Context) (*proxy.Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done é fechado quando a requisição termina, com sucesso ou erro.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Cancel aborta a requisição. Await passa a devolver context.Canceled,
// a menos que a resposta já tenha chegado.
func (f *Future) Cancel() {
	f.cancel()
}
