package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/fast-rapidapi-toolkit/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure inicializa o logger global a partir da configuração.
// Os logs vão para stderr: o stdout fica reservado ao código gerado pela CLI.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return ConfigureWriter(cfg, os.Stderr)
}

// ConfigureWriter é igual a Configure, mas escreve em out.
func ConfigureWriter(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON por padrão, console "bonito" para uso local
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("component", "rapidapi").
		Logger()

	// extractor e manager usam o logger global quando nenhum é injetado
	log.Logger = logger
	return logger
}
