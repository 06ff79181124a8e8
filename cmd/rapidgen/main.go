package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/raywall/fast-rapidapi-toolkit/api"
	"github.com/raywall/fast-rapidapi-toolkit/envloader"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/logger"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/snippet"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/synth"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const usage = "Comandos esperados: generate | batch | validate | call"

// batchLimit limita quantas funções do lote são geradas ao mesmo tempo.
const batchLimit = 8

func main() {
	// .env é opcional
	_ = godotenv.Load()

	var logCfg config.LoggingConf
	if err := envloader.Load(&logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuração de log inválida: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(logCfg)

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executa o subcomando em args e devolve o código de saída.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	var err error
	switch args[0] {
	case "generate":
		err = runGenerate(args[1:], stdout)
	case "batch":
		err = runBatch(ctx, args[1:], stdout)
	case "validate":
		err = runValidate(args[1:], stdout)
	case "call":
		err = runCall(ctx, args[1:], stdout)
	default:
		err = fmt.Errorf("comando desconhecido: %s", args[0])
	}

	if err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}

// splitList separa uma lista "a,b" ignorando itens vazios.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func runGenerate(args []string, stdout io.Writer) error {
	cmd := flag.NewFlagSet("generate", flag.ContinueOnError)
	filePtr := cmd.String("file", "", "Caminho do snippet Python copiado do RapidAPI")
	namePtr := cmd.String("name", "", "Nome da função gerada")
	fieldsPtr := cmd.String("fields", "", "Chaves a extrair da resposta, separadas por vírgula")
	pkgPtr := cmd.String("package", "", "Gera um arquivo completo com este pacote")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *filePtr == "" || *namePtr == "" {
		return errors.New("flags -file e -name são obrigatórias")
	}

	source, err := os.ReadFile(*filePtr)
	if err != nil {
		return fmt.Errorf("falha leitura do snippet (%s): %w", *filePtr, err)
	}

	code, err := synth.ToPost(*namePtr, splitList(*fieldsPtr), string(source))
	if err != nil {
		return err
	}
	if *pkgPtr != "" {
		if code, err = synth.RenderFile(*pkgPtr, []string{code}); err != nil {
			return err
		}
	}

	_, err = io.WriteString(stdout, code)
	return err
}

func runBatch(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := flag.NewFlagSet("batch", flag.ContinueOnError)
	filePtr := cmd.String("file", "", "Caminho do arquivo YAML do lote")
	outPtr := cmd.String("out", "", "Arquivo de saída (padrão: campo output do lote ou stdout)")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *filePtr == "" {
		return errors.New("flag -file é obrigatória")
	}

	batch, err := config.LoadBatch(*filePtr)
	if err != nil {
		return err
	}

	// Cada função é gerada numa goroutine; a ordem do arquivo é preservada
	functions := make([]string, len(batch.Functions))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit)
	for i, job := range batch.Functions {
		i, job := i, job
		g.Go(func() error {
			source, err := job.Source()
			if err != nil {
				return err
			}
			code, err := synth.ToPost(job.Name, job.Fields, source)
			if err != nil {
				return fmt.Errorf("função %s: %w", job.Name, err)
			}
			functions[i] = code
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	file, err := synth.RenderFile(batch.Package, functions)
	if err != nil {
		return err
	}

	out := *outPtr
	if out == "" {
		out = batch.Output
	}
	if out == "" {
		_, err = io.WriteString(stdout, file)
		return err
	}
	if err := os.WriteFile(out, []byte(file), 0o644); err != nil {
		return fmt.Errorf("falha ao gravar %s: %w", out, err)
	}
	log.Info().Str("output", out).Int("functions", len(functions)).Msg("lote gerado")
	return nil
}

// jobReport é o resultado da validação de uma função do lote.
type jobReport struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type validateReport struct {
	Valid     bool        `json:"valid"`
	Functions []jobReport `json:"functions"`
}

func runValidate(args []string, stdout io.Writer) error {
	cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
	filePtr := cmd.String("file", "", "Caminho do arquivo YAML do lote")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *filePtr == "" {
		return errors.New("flag -file é obrigatória")
	}

	// 1. Load (Validação Estrutural)
	batch, err := config.LoadBatch(*filePtr)
	if err != nil {
		return fmt.Errorf("erro de carregamento/estrutura:\n%w", err)
	}

	// 2. Extração de cada snippet
	report := validateReport{Valid: true}
	for _, job := range batch.Functions {
		entry := jobReport{Name: job.Name}
		fields, err := extractJob(job)
		if err != nil {
			entry.Error = err.Error()
			report.Valid = false
		} else {
			for _, name := range []string{
				snippet.FieldHostName, snippet.FieldURL, snippet.FieldPayload,
				snippet.FieldPayloadFields, snippet.FieldQueryString, snippet.FieldQueryFields,
			} {
				if fields.Has(name) {
					entry.Fields = append(entry.Fields, name)
				}
			}
		}
		report.Functions = append(report.Functions, entry)
	}

	// Output JSON para integração com outras ferramentas
	if os.Getenv("OUTPUT_FORMAT") == "json" {
		jsonOutput, _ := json.Marshal(report)
		fmt.Fprintln(stdout, string(jsonOutput))
	} else {
		for _, entry := range report.Functions {
			if entry.Error != "" {
				fmt.Fprintf(stdout, " - %s: %s\n", entry.Name, entry.Error)
			} else {
				fmt.Fprintf(stdout, " - %s: %s\n", entry.Name, strings.Join(entry.Fields, ", "))
			}
		}
	}

	if !report.Valid {
		return errors.New("o lote contém snippets inválidos")
	}
	fmt.Fprintln(stdout, "✅ Lote válido e pronto para geração!")
	return nil
}

func extractJob(job config.FunctionJob) (*snippet.Fields, error) {
	source, err := job.Source()
	if err != nil {
		return nil, err
	}
	return snippet.Extract(source)
}

func runCall(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := flag.NewFlagSet("call", flag.ContinueOnError)
	methodPtr := cmd.String("method", "POST", "GET ou POST")
	urlPtr := cmd.String("url", "", "URL do endpoint")
	hostPtr := cmd.String("host", "", "Valor do header x-rapidapi-host")
	dataPtr := cmd.String("data", "", "Corpo JSON do POST")
	queryPtr := cmd.String("query", "", "Parâmetros de query do POST (a=1&b=2)")
	fieldsPtr := cmd.String("fields", "", "Chaves a extrair da resposta, separadas por vírgula")
	memoPtr := cmd.Bool("memo", false, "Usa o cache de respostas")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *urlPtr == "" || *hostPtr == "" {
		return errors.New("flags -url e -host são obrigatórias")
	}

	cfg, err := config.LoadApp(ctx)
	if err != nil {
		return err
	}
	apis, closeMetrics, err := api.NewManagerFromApp(cfg)
	if err != nil {
		return err
	}
	defer closeMetrics()

	var future *api.Future
	switch strings.ToUpper(*methodPtr) {
	case "GET":
		endpoint := apis.Get(*hostPtr)
		if *memoPtr {
			endpoint = endpoint.Memoize(cfg.Cache.TTL)
		}
		future = endpoint.Submit(ctx, *urlPtr)
	case "POST":
		query, err := parseQuery(*queryPtr)
		if err != nil {
			return err
		}
		endpoint := apis.Post(*urlPtr, *hostPtr)
		if *memoPtr {
			endpoint = endpoint.Memoize(cfg.Cache.TTL)
		}
		future = endpoint.Submit(ctx, []byte(*dataPtr), query)
	default:
		return fmt.Errorf("método não suportado: %s", *methodPtr)
	}

	result, err := api.DecodeJSON(ctx, future, splitList(*fieldsPtr)...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func parseQuery(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("query inválida: %w", err)
	}
	query := make(map[string]any, len(values))
	for k := range values {
		query[k] = values.Get(k)
	}
	return query, nil
}
