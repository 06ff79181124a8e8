package config

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza a validação estrutural (tags) da configuração da aplicação.
func (cv *ConfigValidator) Validate(cfg *AppConfig) error {
	return cv.structural(cfg)
}

// ValidateBatch realiza validações estruturais e semânticas de um arquivo de lote.
func (cv *ConfigValidator) ValidateBatch(batch *BatchFile) error {
	if err := cv.structural(batch); err != nil {
		return err
	}
	if err := cv.validateBatchSemantics(batch); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}
	return nil
}

func (cv *ConfigValidator) structural(v interface{}) error {
	if err := cv.validate.Struct(v); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}
	return nil
}

func (cv *ConfigValidator) validateBatchSemantics(batch *BatchFile) error {
	if !token.IsIdentifier(batch.Package) {
		return fmt.Errorf("nome de pacote inválido: '%s'", batch.Package)
	}

	// Nomes de função devem ser identificadores Go únicos
	seen := make(map[string]bool)
	for _, fn := range batch.Functions {
		if !token.IsIdentifier(fn.Name) {
			return fmt.Errorf("nome de função inválido: '%s'", fn.Name)
		}
		if seen[fn.Name] {
			return fmt.Errorf("função duplicada detectada: '%s'", fn.Name)
		}
		seen[fn.Name] = true
	}
	return nil
}
