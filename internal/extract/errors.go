package extract

import (
	"fmt"

	"documate/internal/documents"
)

// Kind classifies extraction failures.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindCorruptFile       Kind = "corrupt_file"
	KindIOFailure         Kind = "io_failure"
)

// Sentinels for errors.Is checks against a failure kind.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrCorruptFile       = &Error{Kind: KindCorruptFile}
	ErrIOFailure         = &Error{Kind: KindIOFailure}
)

// Error is returned for every extraction failure.
type Error struct {
	Kind   Kind
	Format documents.Format
	Err    error
}

func (e *Error) Error() string {
	desc := e.summary()
	if e.Err != nil && e.Kind != KindUnsupportedFormat {
		return desc + ": " + e.Err.Error()
	}
	return desc
}

// Description is the user-facing form of the failure. Parser details are kept
// for corrupt files; storage internals behind an I/O failure are not.
func (e *Error) Description() string {
	if e.Kind == KindCorruptFile && e.Err != nil {
		return e.summary() + ": " + e.Err.Error()
	}
	return e.summary()
}

func (e *Error) summary() string {
	switch e.Kind {
	case KindUnsupportedFormat:
		if e.Format != "" {
			return "unsupported file format " + string(e.Format)
		}
		return "unsupported file format"
	case KindCorruptFile:
		if e.Format != "" {
			return fmt.Sprintf("the %s file could not be parsed", e.Format)
		}
		return "the file could not be parsed"
	case KindIOFailure:
		return "the stored file could not be read"
	default:
		return "extraction failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Format == "" && t.Kind == e.Kind
}

func corrupt(format documents.Format, err error) error {
	return &Error{Kind: KindCorruptFile, Format: format, Err: err}
}
