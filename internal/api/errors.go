package api

import (
	"errors"
	"fmt"
)

// Kind is a classification of error type.
type Kind string

const (
	// Validation marks malformed local input. It never reaches the network.
	Validation Kind = "validation"
	// NotFound marks a 404 on a per-user lookup: the user has not onboarded.
	NotFound Kind = "not_found"
	// Request marks any other non-2xx response. Detail is the backend text.
	Request Kind = "request"
	// Transport marks network or decoding failures.
	Transport Kind = "transport"
)

// Error is the typed failure every backend operation returns.
type Error struct {
	Kind   Kind
	Detail string
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Validation:
		return fmt.Sprintf("invalid input: %s", e.Detail)
	case NotFound:
		return fmt.Sprintf("not found: %s", e.Detail)
	case Request:
		return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Detail)
	case Transport:
		if e.Err != nil {
			return fmt.Sprintf("transport error: %s", e.Err)
		}
		return fmt.Sprintf("transport error: %s", e.Detail)
	default:
		return e.Detail
	}
}

// Unwrap allows errors.Is / errors.As to reach the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user: the backend detail verbatim for
// request failures, the underlying description for transport failures.
func (e *Error) Message() string {
	switch e.Kind {
	case Transport:
		if e.Err != nil {
			return e.Err.Error()
		}
	}
	return e.Detail
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: Validation, Detail: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(detail string) *Error {
	return &Error{Kind: NotFound, Detail: detail, Status: 404}
}

func NewRequestError(status int, detail string) *Error {
	return &Error{Kind: Request, Detail: detail, Status: status}
}

func NewTransportError(err error) *Error {
	return &Error{Kind: Transport, Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == Validation }
func IsNotFound(err error) bool   { return KindOf(err) == NotFound }
func IsRequest(err error) bool    { return KindOf(err) == Request }
func IsTransport(err error) bool  { return KindOf(err) == Transport }

// UserMessage returns the text to show for err. Typed errors yield their
// Message; anything else yields err.Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
