package validator

import (
	"errors"
	"fmt"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// FieldError はどの項目が不正かを持つ。errors.Is(err, ErrInvalidInput) が true になる。
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s", e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field string) error {
	return &FieldError{Field: field}
}
