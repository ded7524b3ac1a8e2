package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNetwork indicates the remote was never reached (no response)
	ErrNetwork = errors.New("network failure")

	// ErrRemote indicates the remote answered with a non-2xx status
	ErrRemote = errors.New("remote error")

	// ErrNotFound indicates the operation referenced an absent entity
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed filter or query input
	ErrValidation = errors.New("invalid input")

	// ErrNotPermitted indicates a library mutation without a signed-in session
	ErrNotPermitted = errors.New("mutation not permitted")

	// ErrCircuitOpen indicates the transport refused to call a failing remote
	ErrCircuitOpen = errors.New("remote temporarily unavailable")
)

// ErrorKind classifies a failure
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindRemote
	KindNotFound
	KindValidation
	KindNotPermitted
)

// String returns a human-readable representation of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindNotPermitted:
		return "not_permitted"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindRemote:
		return ErrRemote
	case KindNotFound:
		return ErrNotFound
	case KindValidation:
		return ErrValidation
	case KindNotPermitted:
		return ErrNotPermitted
	default:
		return nil
	}
}

// Error is a classified failure. Message is the server-provided message when
// the remote sent one; Err is the underlying transport or decode error.
type Error struct {
	Kind    ErrorKind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NotFoundError builds a NotFound error for op
func NotFoundError(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// ValidationError builds a Validation error for op
func ValidationError(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// KindOf classifies err, returning KindUnknown for unclassified errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrCircuitOpen):
		return KindNetwork
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotPermitted):
		return KindNotPermitted
	case errors.Is(err, ErrRemote):
		return KindRemote
	}
	return KindUnknown
}

// Normalize converts err into the ErrorInfo stored by a Failure state.
// The message prefers the server-provided message, then the transport
// message, then fallback.
func Normalize(err error, fallback string) ErrorInfo {
	info := ErrorInfo{Kind: KindOf(err), Message: fallback}
	if err == nil {
		return info
	}

	var e *Error
	if errors.As(err, &e) {
		info.Status = e.Status
		switch {
		case e.Message != "":
			info.Message = e.Message
		case e.Err != nil && e.Err.Error() != "":
			info.Message = e.Err.Error()
		}
		return info
	}

	if msg := err.Error(); msg != "" {
		info.Message = msg
	}
	return info
}
