package validation

import (
	"fmt"
	"strings"

	apperror "reportit/internal/errors"
)

// Field é um par nome/valor de um campo obrigatório do payload.
type Field struct {
	Name  string
	Value string
}

// Require verifica a presença dos campos na ordem informada e retorna um
// ValidationError nomeando o primeiro campo ausente ou vazio. Função pura,
// sem efeitos colaterais; cada endpoint define seu próprio conjunto de campos.
func Require(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return apperror.NewValidationError(fmt.Sprintf("%s is required", f.Name))
		}
	}
	return nil
}
