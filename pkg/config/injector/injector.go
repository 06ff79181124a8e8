package injector

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/tidwall/gjson"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.RAPIDAPI_KEY}, ${ssm./rapidapi/key}, ${secret.rapidapi#key}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Injector resolve referências ${env.X}, ${ssm./path} e ${secret.id} nos
// campos string de uma configuração já carregada.
//
// Em ${secret.id#campo}, o segredo é lido como JSON e apenas o campo é
// usado. Os clientes da AWS só são criados quando alguma referência ssm
// ou secret aparece. Um Injector não deve ser usado por várias goroutines.
type Injector struct {
	lookup  func(string) (string, bool)
	ssm     SSMClient
	secrets SecretsClient

	once   sync.Once
	cfg    aws.Config
	awsErr error
}

type Option func(*Injector)

// WithSSM usa client no lugar do cliente criado a partir do ambiente.
func WithSSM(client SSMClient) Option {
	return func(i *Injector) { i.ssm = client }
}

// WithSecrets usa client no lugar do cliente criado a partir do ambiente.
func WithSecrets(client SecretsClient) Option {
	return func(i *Injector) { i.secrets = client }
}

// WithLookup troca a fonte das referências ${env.X}.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(i *Injector) { i.lookup = lookup }
}

func New(opts ...Option) *Injector {
	i := &Injector{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			if err := i.injectRecursive(ctx, v.Field(k)); err != nil {
				return err
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}
		parts := pattern.FindStringSubmatch(match)

		val, resolveErr := i.fetchValue(ctx, parts[1], parts[2])
		if resolveErr != nil {
			err = resolveErr // Captura erro para retornar depois
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		val, _ := i.lookup(key)
		return val, nil

	case "ssm":
		client, err := i.ssmClient(ctx)
		if err != nil {
			return "", err
		}
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(key),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", fmt.Errorf("erro no SSM GetParameter (%s): %w", key, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return "", fmt.Errorf("parâmetro SSM sem valor: %s", key)
		}
		return *out.Parameter.Value, nil

	case "secret":
		client, err := i.secretsClient(ctx)
		if err != nil {
			return "", err
		}
		id, field, _ := strings.Cut(key, "#")
		out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(id),
		})
		if err != nil {
			return "", fmt.Errorf("erro no SecretsManager (%s): %w", id, err)
		}
		if out.SecretString == nil {
			return "", fmt.Errorf("segredo sem valor texto: %s", id)
		}
		val := *out.SecretString
		if field == "" {
			return val, nil
		}

		// Segredos JSON: ${secret.id#campo}
		res := gjson.Get(val, field)
		if !gjson.Valid(val) || !res.Exists() {
			return "", fmt.Errorf("campo %q não encontrado no segredo %s", field, id)
		}
		return res.String(), nil
	}

	return "", fmt.Errorf("origem desconhecida: %s", sourceType)
}

// awsConfig carrega uma única vez a configuração da AWS, usando a região
// de AWS_REGION e a cadeia padrão de credenciais.
func (i *Injector) awsConfig(ctx context.Context) (aws.Config, error) {
	i.once.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if region, ok := i.lookup("AWS_REGION"); ok && region != "" {
			opts = append(opts, awsconfig.WithRegion(region))
		}
		i.cfg, i.awsErr = awsconfig.LoadDefaultConfig(ctx, opts...)
		if i.awsErr != nil {
			i.awsErr = fmt.Errorf("falha ao carregar configuração AWS: %w", i.awsErr)
		}
	})
	return i.cfg, i.awsErr
}

func (i *Injector) ssmClient(ctx context.Context) (SSMClient, error) {
	if i.ssm == nil {
		cfg, err := i.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		i.ssm = ssm.NewFromConfig(cfg)
	}
	return i.ssm, nil
}

func (i *Injector) secretsClient(ctx context.Context) (SecretsClient, error) {
	if i.secrets == nil {
		cfg, err := i.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		i.secrets = secretsmanager.NewFromConfig(cfg)
	}
	return i.secrets, nil
}
