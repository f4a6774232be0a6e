package review

import (
	"errors"
	"fmt"
)

// Kind names the pipeline step that failed. Kinds exist for logs and tests;
// the HTTP boundary collapses everything except KindMissingFile into one
// generic client-facing message and must never be rebuilt from these strings.
type Kind string

const (
	KindMissingFile Kind = "missing_file"
	KindRead        Kind = "read_error"
	KindAnalysis    Kind = "analysis_error"
	KindPersist     Kind = "persist_error"
	KindStore       Kind = "store_unavailable"
)

// Error tags a failure with its pipeline kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapErr tags err with the given kind.
func WrapErr(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the pipeline kind from err, or "" when untagged.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
