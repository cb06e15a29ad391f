// Package errors defines the error taxonomy shared by the service:
// sentinel errors for lookup failures and a structured validation error
// carrying one message per violated field.
package errors

import (
	"fmt"
	"strings"
)

var (
	ErrNotFound  = fmt.Errorf("not found")
	ErrInvalidID = fmt.Errorf("invalid id")
)

// FieldError reports a single violated field constraint.
type FieldError struct {
	Field   string
	Message string
}

// Validation aggregates every field violation found in a candidate record.
// It never represents a partial persist: a record failing validation is
// rejected wholesale.
type Validation struct {
	Fields []FieldError
}

func (v *Validation) Error() string {
	return "validation error: " + strings.Join(v.Messages(), "; ")
}

// Messages returns the human-readable message of each violation,
// in field order.
func (v *Validation) Messages() []string {
	msgs := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		msgs[i] = f.Message
	}
	return msgs
}
