package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadApp(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "secret")
	t.Setenv("RAPIDAPI_WORKERS", "4")
	t.Setenv("RAPIDAPI_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadApp(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Manager.APIKey)
	assert.Equal(t, 4, cfg.Manager.Workers)
	assert.Equal(t, 5*time.Second, cfg.Manager.Timeout)
	assert.Equal(t, 10, cfg.Manager.PoolSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

type stubSecrets map[string]string

func (s stubSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	val, ok := s[aws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(val)}, nil
}

func TestLoadApp_ResolvesSecrets(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "${secret.rapidapi}")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_PASSWORD", "${secret.redis#password}")

	secrets := stubSecrets{
		"rapidapi": "key-from-secrets",
		"redis":    `{"password":"s3cret"}`,
	}
	cfg, err := LoadApp(context.Background(), injector.WithSecrets(secrets))
	require.NoError(t, err)

	assert.Equal(t, "key-from-secrets", cfg.Manager.APIKey)
	assert.Equal(t, "s3cret", cfg.Cache.RedisPassword)
}

func TestLoadApp_Errors(t *testing.T) {
	t.Run("Missing Key", func(t *testing.T) {
		t.Setenv("RAPIDAPI_KEY", "")
		_, err := LoadApp(context.Background())
		assert.ErrorContains(t, err, "APIKey")
	})

	t.Run("Unknown Secret", func(t *testing.T) {
		t.Setenv("RAPIDAPI_KEY", "${secret.missing}")
		_, err := LoadApp(context.Background(), injector.WithSecrets(stubSecrets{}))
		assert.ErrorContains(t, err, "falha ao resolver configuração")
	})

	t.Run("Invalid Duration", func(t *testing.T) {
		t.Setenv("RAPIDAPI_KEY", "secret")
		t.Setenv("RAPIDAPI_TIMEOUT", "soon")
		_, err := LoadApp(context.Background())
		assert.ErrorContains(t, err, "RAPIDAPI_TIMEOUT")
	})
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ping.py"), []byte("ping snippet"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`
package: client
output: client_gen.go
functions:
  - name: lookup_user
    snippet: "inline snippet"
    fields: [result, id]
  - name: ping
    snippet_file: ping.py
`), 0o644))

	batch, err := LoadBatch(path)
	require.NoError(t, err)

	assert.Equal(t, "client", batch.Package)
	assert.Equal(t, "client_gen.go", batch.Output)
	require.Len(t, batch.Functions, 2)
	assert.Equal(t, []string{"result", "id"}, batch.Functions[0].Fields)
	assert.Equal(t, filepath.Join(dir, "ping.py"), batch.Functions[1].SnippetFile)

	src, err := batch.Functions[0].Source()
	require.NoError(t, err)
	assert.Equal(t, "inline snippet", src)

	src, err = batch.Functions[1].Source()
	require.NoError(t, err)
	assert.Equal(t, "ping snippet", src)
}

func TestLoadBatch_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadBatch(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "falha leitura do lote")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("functions: [\n"), 0o644))
	_, err = LoadBatch(broken)
	assert.ErrorContains(t, err, "yaml inválido")

	_, err = FunctionJob{Name: "ping", SnippetFile: filepath.Join(dir, "nope.py")}.Source()
	assert.ErrorContains(t, err, "falha leitura do snippet de ping")
}
