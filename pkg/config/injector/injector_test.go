package injector_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/raywall/fast-rapidapi-toolkit/pkg/config/injector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	params map[string]string
	err    error
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	val, ok := f.params[aws.ToString(in.Name)]
	if !ok {
		return nil, errors.New("ParameterNotFound")
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(val)}}, nil
}

type fakeSecrets struct {
	secrets map[string]string
	calls   int
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	val, ok := f.secrets[aws.ToString(in.SecretId)]
	if !ok {
		return nil, errors.New("ResourceNotFoundException")
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(val)}, nil
}

type managerSettings struct {
	APIKey   string
	Host     string
	Password string
	Workers  int
	Nested   *nestedSettings
	Hosts    []string
	internal string
}

type nestedSettings struct {
	URL string
}

func newInjector(env map[string]string) (*injector.Injector, *fakeSSM, *fakeSecrets) {
	params := &fakeSSM{params: map[string]string{"/rapidapi/host": "weather.p.rapidapi.com"}}
	secrets := &fakeSecrets{secrets: map[string]string{
		"rapidapi": "key-123",
		"redis":    `{"password":"s3cret","user":"app"}`,
	}}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return injector.New(injector.WithSSM(params), injector.WithSecrets(secrets), injector.WithLookup(lookup)), params, secrets
}

func TestInjector_Inject(t *testing.T) {
	inj, _, _ := newInjector(map[string]string{"REGION": "us-east-1"})

	target := &managerSettings{
		APIKey:   "${secret.rapidapi}",
		Host:     "${ssm./rapidapi/host}",
		Password: "${secret.redis#password}",
		Workers:  4,
		Nested:   &nestedSettings{URL: "https://${env.REGION}.${ssm./rapidapi/host}/v1"},
		Hosts:    []string{"${env.REGION}", "fixo"},
		internal: "${env.REGION}",
	}

	require.NoError(t, inj.Inject(context.Background(), target))

	assert.Equal(t, "key-123", target.APIKey)
	assert.Equal(t, "weather.p.rapidapi.com", target.Host)
	assert.Equal(t, "s3cret", target.Password)
	assert.Equal(t, 4, target.Workers)
	assert.Equal(t, "https://us-east-1.weather.p.rapidapi.com/v1", target.Nested.URL)
	assert.Equal(t, []string{"us-east-1", "fixo"}, target.Hosts)
	assert.Equal(t, "${env.REGION}", target.internal)
}

func TestInjector_PlainValuesSkipClients(t *testing.T) {
	inj, _, secrets := newInjector(nil)

	target := &managerSettings{APIKey: "literal", Host: "${env.MISSING}"}
	require.NoError(t, inj.Inject(context.Background(), target))

	assert.Equal(t, "literal", target.APIKey)
	assert.Equal(t, "", target.Host)
	assert.Zero(t, secrets.calls)
}

func TestInjector_Errors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		value  string
		ssmErr error
		want   string
	}{
		{name: "Missing Secret", value: "${secret.nope}", want: "erro no SecretsManager (nope)"},
		{name: "Missing Field", value: "${secret.redis#token}", want: `campo "token" não encontrado no segredo redis`},
		{name: "Field On Plain Secret", value: "${secret.rapidapi#key}", want: "não encontrado no segredo rapidapi"},
		{name: "SSM Failure", value: "${ssm./rapidapi/host}", ssmErr: errors.New("AccessDenied"), want: "AccessDenied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inj, params, _ := newInjector(nil)
			params.err = tt.ssmErr

			target := &managerSettings{APIKey: tt.value}
			err := inj.Inject(ctx, target)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	t.Run("Nil Target", func(t *testing.T) {
		inj, _, _ := newInjector(nil)
		var target *managerSettings
		assert.Error(t, inj.Inject(ctx, target))
		assert.Error(t, inj.Inject(ctx, managerSettings{}))
	})
}
