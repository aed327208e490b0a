package adapter

import "fmt"

// ConversionError reports a record whose runtime value cannot be coerced to
// its declared schema type. It is not retryable: the same input always
// fails the same way.
type ConversionError struct {
	Field  string
	Reason string
}

func (e *ConversionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("avro conversion: %s", e.Reason)
	}
	return fmt.Sprintf("avro conversion: field %q: %s", e.Field, e.Reason)
}

func conversionErrorf(field string, format string, args ...any) *ConversionError {
	return &ConversionError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}
