package synth

import (
	"errors"
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/literal"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/snippet"
	"github.com/rs/zerolog/log"
)

// ErrInvalidName é retornado quando o nome da função não é um identificador Go.
var ErrInvalidName = errors.New("synth: function name is not a valid Go identifier")

// Namespaces de origem de um parâmetro.
const (
	NamespacePayload = "payload"
	NamespaceQuery   = "query"
)

// Param é um parâmetro da função gerada.
type Param struct {
	// Name é o identificador Go do parâmetro (snake_case).
	Name string
	// Key é a chave original no payload ou na querystring.
	Key string
	// Type é o tipo Go inferido a partir do valor de exemplo.
	Type string
	// Default é o valor de exemplo como literal Go.
	Default string
	// Namespace indica se o parâmetro veio do payload ou da querystring.
	Namespace string
}

// Binding liga uma chave da requisição ao parâmetro que a alimenta.
type Binding struct {
	Key   string
	Param string
}

// Plan é o estado de trabalho da geração de uma função.
type Plan struct {
	Name          string
	DesiredFields []string
	URL           string
	HostName      string
	Params        []Param
	Payload       []Binding
	Query         []Binding
}

// reserved são identificadores usados pelo corpo gerado.
var reserved = map[string]bool{
	"ctx": true, "apis": true, "payload": true, "query": true, "body": true,
	"err": true, "future": true, "api": true, "json": true, "context": true,
	"any": true, "string": true, "int64": true, "float64": true, "bool": true,
	"nil": true, "true": true, "false": true,
}

// BuildPlan deriva a especificação da função a partir dos campos extraídos.
//
// Os campos do payload vêm primeiro, seguidos dos campos da querystring.
// Um parâmetro da querystring cujo nome já exista recebe o prefixo "query_"
// (e um sufixo numérico, se ainda houver colisão).
func BuildPlan(name string, f *snippet.Fields, desired []string) (*Plan, error) {
	if !token.IsIdentifier(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s := &Plan{
		Name:          name,
		DesiredFields: append([]string(nil), desired...),
		URL:           f.URL,
		HostName:      f.HostName,
	}
	taken := map[string]bool{name: true}

	switch {
	case f.PayloadFields != nil:
		for _, key := range f.PayloadFields.Keys {
			v, _ := f.PayloadFields.Get(key)
			s.add(taken, key, v, NamespacePayload)
		}
	case f.PayloadForm != nil:
		// nomes repetidos (inclusive vazios) viram uma única chave do payload
		seen := make(map[string]bool, len(f.PayloadForm))
		for _, key := range f.PayloadForm {
			if seen[key] {
				continue
			}
			seen[key] = true
			s.add(taken, key, "", NamespacePayload)
		}
	}
	if f.QueryFields != nil {
		for _, key := range f.QueryFields.Keys {
			v, _ := f.QueryFields.Get(key)
			s.add(taken, key, v, NamespaceQuery)
		}
	}
	return s, nil
}

func (s *Plan) add(taken map[string]bool, key string, sample any, ns string) {
	name := identifier(snippet.CamelToSnake(key))
	if taken[name] && ns == NamespaceQuery {
		log.Debug().Str("param", name).Msg("parâmetro duplicado entre payload e querystring")
		name = "query_" + name
	}
	base := name
	for i := 2; taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	taken[name] = true

	s.Params = append(s.Params, Param{
		Name:      name,
		Key:       key,
		Type:      goType(sample),
		Default:   goLiteral(sample),
		Namespace: ns,
	})
	b := Binding{Key: key, Param: name}
	if ns == NamespaceQuery {
		s.Query = append(s.Query, b)
	} else {
		s.Payload = append(s.Payload, b)
	}
}

// identifier transforma name num identificador Go utilizável como parâmetro.
func identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	id := b.String()
	if id == "" {
		id = "param"
	}
	if first, _ := utf8.DecodeRuneInString(id); unicode.IsDigit(first) {
		id = "_" + id
	}
	if id == "_" || token.IsKeyword(id) || reserved[id] {
		id += "_"
	}
	return id
}

// goType infere o tipo Go do valor de exemplo.
func goType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int64:
		return "int64"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case *literal.Map:
		return "map[string]any"
	default:
		return "any"
	}
}

// goLiteral serializa o valor de exemplo como um literal Go.
func goLiteral(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		f := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(f, ".eIN") {
			f += ".0"
		}
		return f
	case bool:
		return strconv.FormatBool(t)
	case []any:
		items := make([]string, len(t))
		for i, item := range t {
			items[i] = goLiteral(item)
		}
		return "[]any{" + strings.Join(items, ", ") + "}"
	case *literal.Map:
		items := make([]string, 0, t.Len())
		for _, k := range t.Keys {
			item, _ := t.Get(k)
			items = append(items, strconv.Quote(k)+": "+goLiteral(item))
		}
		return "map[string]any{" + strings.Join(items, ", ") + "}"
	default:
		return "nil"
	}
}
