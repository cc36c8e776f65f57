package domain

import (
	"errors"
	"fmt"
)

// Precondition errors. Requests guarded by these are never sent.
var (
	ErrNoCredential = errors.New("not authenticated")
	ErrMissingID    = errors.New("missing resource id")
)

// Errors surfaced from the backend or the transport.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("authentication rejected")
	ErrForbidden         = errors.New("access forbidden")
	ErrRejected          = errors.New("request rejected")
	ErrTransport         = errors.New("an unexpected error occurred, please try again later")
	ErrMalformedResponse = errors.New("malformed response")
)

// Session errors.
var ErrUnexpectedRole = errors.New("unexpected user role")

// Workflow errors.
var (
	ErrAssigneeRequired = errors.New("please select a salesperson")
	ErrActionInFlight   = errors.New("an action is already in progress for this item")
	ErrNotConfirmed     = errors.New("action not confirmed")
	ErrNotPending       = errors.New("client is not pending approval")
	ErrInvalidOrder     = errors.New("invalid order")
	ErrInvalidReport    = errors.New("invalid report parameters")
	ErrValidation       = errors.New("validation failed")
	ErrClosed           = errors.New("workflow closed")
)

// messageError is a sentinel with a message meant for the user.
type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string       { return e.msg }
func (e *messageError) Unwrap() error       { return e.kind }
func (e *messageError) UserMessage() string { return e.msg }

// fieldErr wraps a sentinel with a user-facing message.
func fieldErr(sentinel error, msg string) error {
	return &messageError{kind: sentinel, msg: msg}
}

// Invalid returns an ErrValidation error whose user message is msg.
func Invalid(format string, args ...any) error {
	return fieldErr(ErrValidation, fmt.Sprintf(format, args...))
}

type userFacing interface {
	UserMessage() string
}

type fieldCarrier interface {
	FieldErrors() map[string][]string
}

// Describe renders err as a message fit for display.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var uf userFacing
	switch {
	case errors.As(err, &uf):
		return uf.UserMessage()
	case errors.Is(err, ErrNoCredential):
		return "You are not logged in."
	case errors.Is(err, ErrTransport):
		return "An unexpected error occurred. Please try again later."
	case errors.Is(err, ErrNotFound):
		return "The requested item was not found."
	}
	return err.Error()
}

// FieldErrors returns the per-field messages carried by err, if any.
func FieldErrors(err error) map[string][]string {
	var fc fieldCarrier
	if errors.As(err, &fc) {
		return fc.FieldErrors()
	}
	return nil
}
