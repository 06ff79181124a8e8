package literal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseJSON decodifica um documento JSON nos mesmos tipos de Parse,
// preservando a ordem das chaves dos objetos.
func ParseJSON(src string) (any, error) {
	if !gjson.Valid(src) {
		return nil, fmt.Errorf("%w: invalid JSON document", ErrSyntax)
	}
	return fromResult(gjson.Parse(src))
}

func fromResult(r gjson.Result) (any, error) {
	switch r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		return r.String(), nil
	case gjson.Number:
		raw := strings.TrimSpace(r.Raw)
		if !strings.ContainsAny(raw, ".eE") {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return n, nil
			}
		}
		return r.Float(), nil
	}

	var err error
	if r.IsObject() {
		m := NewMap()
		r.ForEach(func(key, value gjson.Result) bool {
			var v any
			if v, err = fromResult(value); err != nil {
				return false
			}
			m.Set(key.String(), v)
			return true
		})
		return m, err
	}

	items := []any{}
	r.ForEach(func(_, value gjson.Result) bool {
		var v any
		if v, err = fromResult(value); err != nil {
			return false
		}
		items = append(items, v)
		return true
	})
	return items, err
}
