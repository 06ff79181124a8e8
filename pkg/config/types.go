package config

import "time"

// AppConfig representa a configuração completa de uma aplicação que usa o
// Manager, carregada de variáveis de ambiente pelo envloader.
type AppConfig struct {
	Manager ManagerConfig
	Logging LoggingConf
	Metrics MetricsConf
	Cache   CacheConf
}

// ManagerConfig contém a chave do RapidAPI e os limites do pool de conexões.
type ManagerConfig struct {
	APIKey string `env:"RAPIDAPI_KEY" validate:"required"`
	// Workers limita quantas requisições executam ao mesmo tempo.
	Workers int `env:"RAPIDAPI_WORKERS" envDefault:"10" validate:"gte=1"`
	// PoolSize é o número de conexões ociosas mantidas por host.
	PoolSize int `env:"RAPIDAPI_POOL_SIZE" envDefault:"10" validate:"gte=1"`
	// Hosts é o número de hosts distintos mantidos no pool.
	Hosts    int           `env:"RAPIDAPI_HOSTS" envDefault:"20" validate:"gte=1"`
	Timeout  time.Duration `env:"RAPIDAPI_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	KeyOnGet bool          `env:"RAPIDAPI_KEY_ON_GET" envDefault:"false"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"console" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"rapidapi."`
}

// CacheConf configura o cache de resultados. Sem RedisAddr, o cache fica em memória.
type CacheConf struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" validate:"gte=0"`
	TTL           time.Duration `env:"CACHE_TTL" envDefault:"5m" validate:"gte=0"`
}

// BatchFile descreve, em YAML, várias funções a serem geradas de uma vez.
//
//	package: client
//	functions:
//	  - name: lookup_user
//	    snippet_file: snippets/lookup_user.py
//	    fields: [result]
type BatchFile struct {
	Package   string        `yaml:"package" validate:"required"`
	Output    string        `yaml:"output"`
	Functions []FunctionJob `yaml:"functions" validate:"required,min=1,dive"`
}

// FunctionJob é uma função a ser gerada. O snippet pode vir inline ou de um arquivo.
type FunctionJob struct {
	Name        string   `yaml:"name" validate:"required"`
	Snippet     string   `yaml:"snippet" validate:"required_without=SnippetFile"`
	SnippetFile string   `yaml:"snippet_file" validate:"required_without=Snippet"`
	Fields      []string `yaml:"fields"`
}
