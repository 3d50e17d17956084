package domain

import "fmt"

// Reasons carried by InvalidInputError.
const (
	ReasonMissing     = "missing"
	ReasonWrongType   = "wrong_type"
	ReasonOutOfDomain = "out_of_domain"
)

// InvalidInputError reports a request field that is missing, not a usable
// number, or outside its documented domain.
type InvalidInputError struct {
	Field  string
	Reason string
	Detail string
}

func (e *InvalidInputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s (%s)", e.Field, e.Reason, e.Detail)
}

func Missing(field string) error {
	return &InvalidInputError{Field: field, Reason: ReasonMissing}
}

func WrongType(field, detail string) error {
	return &InvalidInputError{Field: field, Reason: ReasonWrongType, Detail: detail}
}

func OutOfDomain(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: ReasonOutOfDomain, Detail: fmt.Sprintf(format, args...)}
}
