package codec

import "fmt"

// DecodeError reports a malformed or missing required field in one record.
// It is caller-recoverable, the dispatcher decides whether to drop the
// event or fail the request.
type DecodeError struct {
	Record string
	Field  string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: field %q: %v", e.Record, e.Field, e.Cause)
	}
	return fmt.Sprintf("decode %s: missing required field %q", e.Record, e.Field)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func missingField(record, field string) error {
	return &DecodeError{Record: record, Field: field}
}

func badField(record, field string, cause error) error {
	return &DecodeError{Record: record, Field: field, Cause: cause}
}

// UnsupportedKindError reports a channel type this decoder does not handle.
type UnsupportedKindError struct {
	Record string
	Kind   int
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("decode %s: unsupported kind %d", e.Record, e.Kind)
}
