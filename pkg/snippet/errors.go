package snippet

import (
	"errors"
	"fmt"
)

// ErrPatternNotFound indica que o padrão obrigatório do método HTTP não
// foi encontrado no snippet.
var ErrPatternNotFound = errors.New("snippet: pattern not found")

// PatternNotFoundError detalha qual padrão obrigatório não foi encontrado.
type PatternNotFoundError struct {
	// Field é o nome canônico do campo (ex: "request_type").
	Field string
	// Pattern é o padrão literal procurado.
	Pattern string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("snippet: could not find %s, looked for the pattern: %s", e.Field, e.Pattern)
}

// Unwrap permite errors.Is(err, ErrPatternNotFound).
func (e *PatternNotFoundError) Unwrap() error {
	return ErrPatternNotFound
}
