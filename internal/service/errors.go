package service

import "errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
// Anything that is not one of these is an internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
)

// Error is a client-facing failure: a kind plus the message shown to the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// ErrInvalidCredentials is returned by Login both for an unknown email and a wrong password.
var ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid email or password")

var (
	errPasswordTooShort = newError(ErrInvalidInput, "Password must be at least 6 characters")
	errUsernameLength   = newError(ErrInvalidInput, "Username must be between 3 and 50 characters")
	errAccountExists    = newError(ErrConflict, "User with this email or username already exists")
	errUsernameTaken    = newError(ErrConflict, "Username already taken")
	errNoFieldsToUpdate = newError(ErrInvalidInput, "No valid fields to update")
	errUserNotFound     = newError(ErrNotFound, "User not found")
	errEventNotFound    = newError(ErrNotFound, "Event not found")
	errEventFull        = newError(ErrConflict, "Event is full")
	errNotOrganizer     = newError(ErrForbidden, "Only the event organizer can modify this event")
	errPostNotFound     = newError(ErrNotFound, "Post not found")
)
