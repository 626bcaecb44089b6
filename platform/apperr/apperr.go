// Package apperr carries failure categories from the domain services to the
// HTTP handlers and the command line front end.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindBadRequest
	KindUnauthorized
	// KindUnavailable marks an upstream that timed out, refused or answered garbage.
	KindUnavailable
	KindInternal
)

var kindNames = [...]string{
	KindUnknown:      "unknown",
	KindNotFound:     "not_found",
	KindValidation:   "validation",
	KindBadRequest:   "bad_request",
	KindUnauthorized: "unauthorized",
	KindUnavailable:  "unavailable",
	KindInternal:     "internal",
}

var kindStatus = map[Kind]int{
	KindNotFound:     http.StatusNotFound,
	KindValidation:   http.StatusBadRequest,
	KindBadRequest:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindUnavailable:  http.StatusBadGateway,
	KindInternal:     http.StatusInternalServerError,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is a categorised failure. Message is safe to show to callers; Err
// stays internal and is only reachable through errors.Is and errors.As.
type Error struct {
	Kind    Kind
	Message string
	Op      string
	Err     error
	Details any
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus falls back to 400 for kinds without a mapping.
func (e *Error) HTTPStatus() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// WithOp tags the error with the operation that produced it.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error     { return New(KindNotFound, message) }
func Validation(message string) *Error   { return New(KindValidation, message) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Internal(message string) *Error     { return New(KindInternal, message) }

// Unavailable folds the cause into the message so it survives to the client.
func Unavailable(prefix string, err error) *Error {
	return Wrap(KindUnavailable, fmt.Sprintf("%s: %v", prefix, err), err)
}

// InternalAt records a storage or wiring failure under op while keeping the
// public message generic.
func InternalAt(op, message string, err error) *Error {
	return Wrap(KindInternal, message, err).WithOp(op)
}

// GetKind reports the kind of the first *Error in the chain.
func GetKind(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return KindUnknown
	}
	return e.Kind
}

func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
