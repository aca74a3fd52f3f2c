// Package runerr defines the error kinds that abort a manifester run.
package runerr

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Kind classifies a fatal run error.
type Kind string

// Error kinds surfaced by the core.
const (
	ConfigParse        Kind = "ConfigParseError"
	CacheParse         Kind = "CacheParseError"
	LookupNotFound     Kind = "LookupNotFound"
	LookupTransport    Kind = "LookupTransportError"
	IdentifierMismatch Kind = "IdentifierMismatch"
	MissingCoordinate  Kind = "MissingCoordinate"
)

// Error tags an underlying error with its Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a kinded error from a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: eris.New(msg)}
}

// Errorf builds a kinded error from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: eris.Errorf(format, args...)}
}

// Wrap tags err with kind and a context message. Returns nil for a nil err.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: eris.Wrap(err, msg)}
}

// KindOf returns the Kind of the outermost *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

// Is reports whether any *Error in err's tree carries kind, including
// kinds nested under another kind and errors joined with errors.Join.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	if re, ok := err.(*Error); ok && re.Kind == kind {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return Is(u.Unwrap(), kind)
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if Is(e, kind) {
				return true
			}
		}
	}
	return false
}
