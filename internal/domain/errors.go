package domain

import (
	"errors"
	"fmt"
)

// ValidationError indica entrada ausente ou malformada; nunca deve ser repetida
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validação: %s", e.Message)
	}
	return fmt.Sprintf("validação: %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
