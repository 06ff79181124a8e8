package envloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

type poolConfig struct {
	Size    int           `env:"POOL_SIZE" envDefault:"10"`
	Timeout time.Duration `env:"POOL_TIMEOUT" envDefault:"30s"`
}

type managerConfig struct {
	APIKey   string   `env:"API_KEY"`
	Workers  uint16   `env:"WORKERS" envDefault:"4"`
	Ratio    float32  `env:"RATIO" envDefault:"0.5"`
	KeyOnGet bool     `env:"KEY_ON_GET" envDefault:"FALSE"`
	Fields   []string `env:"FIELDS" envDefault:"result, id,,"`
	Pool     poolConfig
	Extra    *poolConfig
	Ignored  string
	internal string `env:"INTERNAL"`
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := &managerConfig{Ignored: "kept"}
	require.NoError(t, LoadFrom(cfg, lookupMap(nil)))

	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, uint16(4), cfg.Workers)
	assert.Equal(t, float32(0.5), cfg.Ratio)
	assert.False(t, cfg.KeyOnGet)
	assert.Equal(t, []string{"result", "id"}, cfg.Fields)
	assert.Equal(t, 10, cfg.Pool.Size)
	assert.Equal(t, 30*time.Second, cfg.Pool.Timeout)
	require.NotNil(t, cfg.Extra)
	assert.Equal(t, 30*time.Second, cfg.Extra.Timeout)
	assert.Equal(t, "kept", cfg.Ignored)
	assert.Empty(t, cfg.internal)
}

func TestLoadFrom_EnvironmentOverridesDefault(t *testing.T) {
	cfg := &managerConfig{}
	err := LoadFrom(cfg, lookupMap(map[string]string{
		"API_KEY":      "secret",
		"WORKERS":      "32",
		"KEY_ON_GET":   "true",
		"FIELDS":       "data",
		"POOL_TIMEOUT": "1m30s",
		"POOL_SIZE":    "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, uint16(32), cfg.Workers)
	assert.True(t, cfg.KeyOnGet)
	assert.Equal(t, []string{"data"}, cfg.Fields)
	assert.Equal(t, 90*time.Second, cfg.Pool.Timeout)
	assert.Equal(t, 10, cfg.Pool.Size, "variável vazia usa o default")
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("API_KEY", "from-env")

	cfg := &managerConfig{}
	require.NoError(t, Load(cfg))
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestLoadFrom_ConversionErrors(t *testing.T) {
	cases := map[string]string{
		"WORKERS":      "70000",
		"POOL_TIMEOUT": "thirty",
		"KEY_ON_GET":   "yes",
	}
	for env, value := range cases {
		t.Run(env, func(t *testing.T) {
			err := LoadFrom(&managerConfig{}, lookupMap(map[string]string{env: value}))
			require.Error(t, err)

			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, env, fieldErr.EnvVar)
			assert.Equal(t, value, fieldErr.Value)
			assert.NotNil(t, fieldErr.Unwrap())
		})
	}
}

func TestLoadFrom_NestedFieldPath(t *testing.T) {
	err := LoadFrom(&managerConfig{}, lookupMap(map[string]string{"POOL_SIZE": "many"}))
	assert.ErrorContains(t, err, "error setting field Pool.Size")
}

func TestLoadFrom_UnsupportedType(t *testing.T) {
	type Config struct {
		Ports []int `env:"PORTS" envDefault:"1,2"`
	}
	err := LoadFrom(&Config{}, lookupMap(nil))

	var unsupported *UnsupportedTypeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestLoad_InvalidConfig(t *testing.T) {
	err := Load(managerConfig{})
	assert.ErrorContains(t, err, "pointer to struct, got struct")

	name := "x"
	err = Load(&name)
	assert.ErrorContains(t, err, "got pointer to string")

	err = Load(nil)
	assert.ErrorContains(t, err, "got nil")
}

func TestMustLoad(t *testing.T) {
	assert.NotPanics(t, func() { MustLoad(&poolConfig{}) })
	assert.Panics(t, func() { MustLoad("not-a-pointer") })
}
