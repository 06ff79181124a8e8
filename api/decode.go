package api

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// DecodeJSON espera f e decodifica o corpo da resposta como JSON.
//
// Sem keys, devolve o documento inteiro. Com keys, devolve um []any com
// todos os valores associados a essas chaves em qualquer profundidade, na
// ordem em que os objetos se fecham: objetos internos antes do objeto que
// os contém e irmãos na ordem do documento.
//
// Erros da requisição e do JSON são devolvidos sem embrulho.
func DecodeJSON(ctx context.Context, f *Future, keys ...string) (any, error) {
	resp, err := f.Await(ctx)
	if err != nil {
		return nil, err
	}
	return decodeBody(resp.Body, keys)
}

func decodeBody(body []byte, keys []string) (any, error) {
	if len(keys) == 0 || !json.Valid(body) {
		var doc any
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	found := make([]any, 0)
	collect(gjson.ParseBytes(body), want, &found)
	return found, nil
}

// collect percorre value em pós-ordem acumulando em out os valores das
// chaves pedidas.
func collect(value gjson.Result, want map[string]bool, out *[]any) {
	switch {
	case value.IsObject():
		// chave repetida no mesmo objeto: vale a última ocorrência,
		// na posição da primeira
		var own []any
		pos := make(map[string]int)
		value.ForEach(func(key, item gjson.Result) bool {
			collect(item, want, out)
			k := key.String()
			if !want[k] {
				return true
			}
			if i, ok := pos[k]; ok {
				own[i] = item.Value()
			} else {
				pos[k] = len(own)
				own = append(own, item.Value())
			}
			return true
		})
		*out = append(*out, own...)
	case value.IsArray():
		value.ForEach(func(_, item gjson.Result) bool {
			collect(item, want, out)
			return true
		})
	}
}
