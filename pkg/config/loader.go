package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raywall/fast-rapidapi-toolkit/envloader"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config/injector"
	"gopkg.in/yaml.v3"
)

// LoadApp carrega a configuração da aplicação das variáveis de ambiente,
// resolve as referências ${env|ssm|secret.chave} e a valida.
func LoadApp(ctx context.Context, opts ...injector.Option) (*AppConfig, error) {
	var cfg AppConfig
	if err := envloader.Load(&cfg); err != nil {
		return nil, err
	}
	if err := injector.New(opts...).Inject(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("falha ao resolver configuração: %w", err)
	}
	if err := NewValidator().Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadBatch lê e valida um arquivo de lote YAML. Caminhos de snippet
// relativos são resolvidos a partir do diretório do próprio arquivo.
func LoadBatch(path string) (*BatchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha leitura do lote (%s): %w", path, err)
	}

	var batch BatchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("yaml inválido (%s): %w", path, err)
	}
	if err := NewValidator().ValidateBatch(&batch); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range batch.Functions {
		fn := &batch.Functions[i]
		if fn.SnippetFile != "" && !filepath.IsAbs(fn.SnippetFile) {
			fn.SnippetFile = filepath.Join(dir, fn.SnippetFile)
		}
	}
	return &batch, nil
}

// Source devolve o texto do snippet da função, lendo o arquivo quando necessário.
func (j FunctionJob) Source() (string, error) {
	if j.Snippet != "" {
		return j.Snippet, nil
	}
	data, err := os.ReadFile(j.SnippetFile)
	if err != nil {
		return "", fmt.Errorf("falha leitura do snippet de %s: %w", j.Name, err)
	}
	return string(data), nil
}
