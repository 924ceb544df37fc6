package internal

import (
	"errors"
	"fmt"
)

// Kind identifies one of the five error kinds Operations can raise.
type Kind int

const (
	// TypeErrorKind: accessor definition without a function, unsupported
	// operator for a type, non-configurable redefinition, cast unavailable.
	TypeErrorKind Kind = iota
	// ReferenceErrorKind: delete/get of an invalid slot index, lookup-delete
	// of a missing name, write to a non-extensible object, op on null/undefined.
	ReferenceErrorKind
	// ArgErrorKind: defineProperty with an incompatible value type,
	// non-function get/set, or simultaneous value and accessors.
	ArgErrorKind
	// MemoryErrorKind: allocation failure during slot, hash, or object growth.
	MemoryErrorKind
	// StopIterationKind terminates the iterator protocol. Not an error in
	// the usual sense; callers that range over Iterate treat it as "done".
	StopIterationKind
)

func (k Kind) String() string {
	switch k {
	case TypeErrorKind:
		return "TypeError"
	case ReferenceErrorKind:
		return "ReferenceError"
	case ArgErrorKind:
		return "ArgError"
	case MemoryErrorKind:
		return "MemoryError"
	case StopIterationKind:
		return "StopIteration"
	default:
		return "Error"
	}
}

// Exception wraps one of the five error kinds with a message, matching
// the shape scripts expect to catch: a kind they can switch on and a
// human-readable description.
type Exception struct {
	Kind Kind
	Msg  string
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap lets errors.Is/errors.As match against the sentinel Kind values
// below regardless of message text.
func (e *Exception) Unwrap() error {
	switch e.Kind {
	case TypeErrorKind:
		return errTypeError
	case ReferenceErrorKind:
		return errReferenceError
	case ArgErrorKind:
		return errArgError
	case MemoryErrorKind:
		return errMemoryError
	case StopIterationKind:
		return errStopIteration
	default:
		return nil
	}
}

var (
	errTypeError      = errors.New("TypeError")
	errReferenceError = errors.New("ReferenceError")
	errArgError       = errors.New("ArgError")
	errMemoryError    = errors.New("MemoryError")
	// errStopIteration is raised by Iterate at the end of a sequence. It
	// is not an error the caller should surface; it is the iterator
	// protocol's termination signal.
	errStopIteration = errors.New("StopIteration")
)

func typeErrorf(format string, args ...any) error {
	return &Exception{Kind: TypeErrorKind, Msg: fmt.Sprintf(format, args...)}
}

func referenceErrorf(format string, args ...any) error {
	return &Exception{Kind: ReferenceErrorKind, Msg: fmt.Sprintf(format, args...)}
}

func argErrorf(format string, args ...any) error {
	return &Exception{Kind: ArgErrorKind, Msg: fmt.Sprintf(format, args...)}
}

func memoryErrorf(format string, args ...any) error {
	return &Exception{Kind: MemoryErrorKind, Msg: fmt.Sprintf(format, args...)}
}

// stopIteration is the single shared StopIteration value; it carries no
// per-call state so callers can compare with errors.Is.
var stopIteration = &Exception{Kind: StopIterationKind, Msg: "iteration complete"}

// IsStopIteration reports whether err is the StopIteration signal.
func IsStopIteration(err error) bool {
	return errors.Is(err, errStopIteration)
}
