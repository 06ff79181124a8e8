package snippet

import (
	"regexp"
	"strings"
)

// Nomes canônicos dos campos extraídos.
const (
	FieldRequestType   = "request_type"
	FieldHostName      = "host_name"
	FieldURL           = "url"
	FieldPayload       = "payload"
	FieldPayloadFields = "payload_fields"
	FieldQueryString   = "querystring"
	FieldQueryFields   = "query_fields"
)

// Rule é uma regra de extração independente: um ou mais padrões literais
// onde "{}" marca o trecho capturado. O primeiro padrão que casar vence.
type Rule struct {
	Name     string
	Patterns []string
	res      []*regexp.Regexp
}

// NewRule compila os padrões de uma regra. A captura "{}" casa o menor
// trecho não vazio possível, inclusive atravessando quebras de linha.
// A comparação diferencia maiúsculas de minúsculas.
func NewRule(name string, patterns ...string) Rule {
	r := Rule{Name: name, Patterns: patterns}
	for _, p := range patterns {
		parts := strings.Split(p, "{}")
		for i := range parts {
			parts[i] = regexp.QuoteMeta(parts[i])
		}
		r.res = append(r.res, regexp.MustCompile("(?s)"+strings.Join(parts, "(.+?)")))
	}
	return r
}

// Find retorna a primeira captura encontrada em src.
func (r Rule) Find(src string) (string, bool) {
	for _, re := range r.res {
		if m := re.FindStringSubmatch(src); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

var (
	requestTypeRule = NewRule(FieldRequestType, `response = requests.request("{}",`)

	// optionalRules são tentadas em ordem; falhas apenas omitem o campo.
	optionalRules = []Rule{
		NewRule(FieldHostName,
			"x-rapidapi-host': \"{}\",\n",
			`"x-rapidapi-host": "{}"`,
			`'x-rapidapi-host': "{}"`,
		),
		NewRule(FieldURL, `url = "{}"`),
		NewRule(FieldPayload, "payload = \"{}\"\nheaders"),
	}

	queryStringRule = NewRule(FieldQueryString, "querystring = {}\n")
)

// Rules retorna todas as regras usadas pelo extrator, na ordem de avaliação.
func Rules() []Rule {
	all := []Rule{requestTypeRule}
	all = append(all, optionalRules...)
	return append(all, queryStringRule)
}
