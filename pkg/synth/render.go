package synth

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/snippet"
)

// ManagerImport é o caminho de importação do pacote usado pelo código gerado.
const ManagerImport = "github.com/raywall/fast-rapidapi-toolkit/api"

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"dict":  dictLiteral,
}

var postTemplate = template.Must(template.New("post").Funcs(funcs).Parse(`
// {{.Name}} envia um POST para {{.URL}} (host {{.HostName}}) e decodifica a resposta JSON.
func {{.Name}}(ctx context.Context, apis *api.Manager{{range .Params}}, {{.Name}} {{.Type}}{{end}}) (any, error) {
	payload := {{dict .Payload}}
	query := {{dict .Query}}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	future := apis.Post({{quote .URL}}, {{quote .HostName}}).Submit(ctx, body, query)
	return api.DecodeJSON(ctx, future{{range .DesiredFields}}, {{quote .}}{{end}})
}

// {{.Name}}WithDefaults chama {{.Name}} com os valores de exemplo do snippet.
func {{.Name}}WithDefaults(ctx context.Context, apis *api.Manager) (any, error) {
	return {{.Name}}(ctx, apis{{range .Params}}, {{.Default}}{{end}})
}
`))

var fileTemplate = template.Must(template.New("file").Funcs(funcs).Parse(`// Code generated by rapidgen. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"encoding/json"

	"{{.Import}}"
)
{{range .Functions}}{{.}}{{end}}`))

// dictLiteral monta o literal do dicionário que liga as chaves da
// requisição aos parâmetros. Sem chaves, degenera para um mapa vazio.
func dictLiteral(bindings []Binding) string {
	items := make([]string, len(bindings))
	for i, b := range bindings {
		items[i] = strconv.Quote(b.Key) + ": " + b.Param
	}
	return "map[string]any{" + strings.Join(items, ", ") + "}"
}

// RenderPost gera o código-fonte da função POST descrita por plan.
// O texto gerado não é validado; compilar e tratar erros de sintaxe é
// responsabilidade de quem o utiliza.
func RenderPost(plan *Plan) (string, error) {
	var buf bytes.Buffer
	if err := postTemplate.Execute(&buf, plan); err != nil {
		return "", fmt.Errorf("synth: render %s: %w", plan.Name, err)
	}
	return buf.String(), nil
}

// RenderFile junta funções já renderizadas num arquivo Go completo.
func RenderFile(pkg string, functions []string) (string, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, map[string]any{
		"Package":   pkg,
		"Import":    ManagerImport,
		"Functions": functions,
	})
	if err != nil {
		return "", fmt.Errorf("synth: render file: %w", err)
	}
	return buf.String(), nil
}

// ToPost extrai os campos do snippet e gera a função POST correspondente.
func ToPost(name string, desired []string, source string) (string, error) {
	fields, err := snippet.Extract(source)
	if err != nil {
		return "", err
	}
	plan, err := BuildPlan(name, fields, desired)
	if err != nil {
		return "", err
	}
	return RenderPost(plan)
}
