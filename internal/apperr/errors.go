package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of a failure returned across the engine boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindInsufficientStock
	KindInvalidTransition
	KindUnauthenticated
	KindConsistencyViolation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInsufficientStock:
		return "INSUFFICIENT_STOCK"
	case KindInvalidTransition:
		return "INVALID_TRANSITION"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindConsistencyViolation:
		return "CONSISTENCY_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// Error is a typed business or invariant failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, apperr.ErrInsufficientStock) works for every instance.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

var (
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrInsufficientStock    = &Error{Kind: KindInsufficientStock}
	ErrInvalidTransition    = &Error{Kind: KindInvalidTransition}
	ErrUnauthenticated      = &Error{Kind: KindUnauthenticated}
	ErrConsistencyViolation = &Error{Kind: KindConsistencyViolation}
)

func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func ConsistencyViolation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConsistencyViolation, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsBusiness reports whether err is a caller-recoverable rejection rather than
// a storage failure or broken invariant.
func IsBusiness(err error) bool {
	switch KindOf(err) {
	case KindInvalidArgument, KindNotFound, KindInsufficientStock, KindInvalidTransition, KindUnauthenticated:
		return true
	}
	return false
}
