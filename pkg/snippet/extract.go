package snippet

import (
	"errors"
	"regexp"
	"strings"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/literal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields é o resultado da extração de um snippet. Apenas RequestType é
// garantido; os demais campos podem estar ausentes (ver Has).
type Fields struct {
	RequestType string
	HostName    string
	URL         string
	// Payload é o corpo bruto, mantido quando não foi decodificado como literal.
	Payload string
	// PayloadFields é o corpo decodificado como dicionário.
	PayloadFields *literal.Map
	// PayloadForm são os nomes de campo de um corpo form-urlencoded.
	PayloadForm []string
	QueryFields *literal.Map

	present map[string]bool
}

// Has informa se o campo canônico name foi extraído.
func (f *Fields) Has(name string) bool {
	if name == FieldRequestType {
		return true
	}
	return f.present[name]
}

// Map retorna a visão em mapa dos campos presentes, usando os nomes canônicos.
// payload_fields é um map[string]any (estratégia literal) ou []string (form).
func (f *Fields) Map() map[string]any {
	out := map[string]any{FieldRequestType: f.RequestType}
	if f.Has(FieldHostName) {
		out[FieldHostName] = f.HostName
	}
	if f.Has(FieldURL) {
		out[FieldURL] = f.URL
	}
	if f.Has(FieldPayload) {
		out[FieldPayload] = f.Payload
	}
	if f.Has(FieldPayloadFields) {
		if f.PayloadFields != nil {
			out[FieldPayloadFields] = f.PayloadFields.Plain()
		} else {
			out[FieldPayloadFields] = f.PayloadForm
		}
	}
	if f.Has(FieldQueryFields) {
		out[FieldQueryFields] = f.QueryFields.Plain()
	}
	return out
}

func (f *Fields) set(name string) {
	if f.present == nil {
		f.present = make(map[string]bool)
	}
	f.present[name] = true
}

// Extractor aplica as regras de extração a snippets gerados pelo RapidAPI
// para a biblioteca requests do Python.
type Extractor struct {
	// Logger recebe as mensagens de debug dos campos ausentes.
	// Quando nil, o logger global do zerolog é usado.
	Logger *zerolog.Logger
}

// Extract usa um Extractor com o logger global.
func Extract(src string) (*Fields, error) {
	return (&Extractor{}).Extract(src)
}

func (e *Extractor) logger() *zerolog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return &log.Logger
}

// Extract localiza os campos de interesse em src.
//
// O método HTTP é obrigatório: se o padrão não for encontrado, retorna um
// *PatternNotFoundError e nenhum resultado parcial. Os demais campos são
// opcionais e apenas registrados em debug quando ausentes.
func (e *Extractor) Extract(src string) (*Fields, error) {
	lg := e.logger()
	// snippets copiados no Windows chegam com CRLF
	text := strings.ReplaceAll(src, "\r\n", "\n")

	method, ok := requestTypeRule.Find(text)
	if !ok {
		return nil, &PatternNotFoundError{Field: FieldRequestType, Pattern: requestTypeRule.Patterns[0]}
	}
	f := &Fields{RequestType: method}

	for _, rule := range optionalRules {
		value, ok := rule.Find(text)
		if !ok {
			lg.Debug().Str("field", rule.Name).Msg("campo não encontrado no snippet")
			continue
		}
		switch rule.Name {
		case FieldHostName:
			f.HostName = value
		case FieldURL:
			f.URL = value
		case FieldPayload:
			f.Payload = value
		}
		f.set(rule.Name)
	}

	if query, err := parseQueryString(text); err != nil {
		lg.Debug().Err(err).Msg("querystring não encontrada no snippet")
	} else {
		f.QueryFields = query
		f.set(FieldQueryFields)
	}

	if f.Has(FieldPayload) {
		decodePayload(f, lg)
	}
	return f, nil
}

var errNoQueryString = errors.New("pattern not found")

func parseQueryString(text string) (*literal.Map, error) {
	raw, ok := queryStringRule.Find(text)
	if !ok {
		return nil, errNoQueryString
	}
	v, err := literal.Parse(raw)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*literal.Map)
	if !ok {
		return nil, errors.New("querystring is not a mapping")
	}
	return m, nil
}

// decodePayload tenta o literal estruturado; se falhar, o payload é
// tratado como form-urlencoded, estratégia que nunca falha.
func decodePayload(f *Fields, lg *zerolog.Logger) {
	body := literal.UnquoteBody(f.Payload)

	if m, ok := decodeLiteralPayload(body); ok {
		f.PayloadFields = m
		f.Payload = ""
		delete(f.present, FieldPayload)
		f.set(FieldPayloadFields)
		return
	}

	lg.Debug().Str("payload", f.Payload).Msg("payload não é literal, usando form-urlencoded")
	f.PayloadForm = decodeFormPayload(body)
	f.set(FieldPayloadFields)
}

func decodeLiteralPayload(body string) (*literal.Map, bool) {
	v, err := literal.Parse(body)
	if err != nil {
		if v, err = literal.ParseJSON(body); err != nil {
			return nil, false
		}
	}
	switch t := v.(type) {
	case *literal.Map:
		return t, true
	case []any:
		// [{...}] é desembrulhado uma única vez
		if len(t) > 0 {
			if m, ok := t[0].(*literal.Map); ok {
				return m, true
			}
		}
	}
	return nil, false
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// decodeFormPayload devolve o nome de cada par "a=1&b=2", na ordem.
// Nomes que ficam vazios após a limpeza são mantidos.
func decodeFormPayload(body string) []string {
	pairs := strings.Split(body, "&")
	names := make([]string, len(pairs))
	for i, pair := range pairs {
		name, _, _ := strings.Cut(pair, "=")
		names[i] = nonAlnum.ReplaceAllString(name, "")
	}
	return names
}
