package mctask

import (
	"errors"
	"fmt"

	"github.com/pryga/mctask/internal/scheduler"
	"github.com/pryga/mctask/internal/thread"
)

// Code is the high-level error category spec.md §7 names: NO_MEM,
// DEADLOCK, ALREADY_DONE (reported as success, but kept as a named code so
// callers can still compose on it with errors.Is), NULL_ARG, BAD_LEN.
type Code string

const (
	ErrCodeNoMem       Code = "no free thread descriptor"
	ErrCodeDeadlock    Code = "join would deadlock"
	ErrCodeAlreadyDone Code = "target already ended"
	ErrCodeNullArg     Code = "required argument is nil"
	ErrCodeBadLen      Code = "invalid length"
)

// Error is a structured kernel error: the operation that failed, the
// high-level code, a message, and whatever internal error it wraps. See
// errors.Is/As support below.
type Error struct {
	Op    string
	Code  Code
	Msg   string
	Inner error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("mctask: %s (op=%s)", msg, e.Op)
	}
	return fmt.Sprintf("mctask: %s", msg)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is provides errors.Is support, matching on Code.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError creates a structured error.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// IsCode reports whether err (or anything it wraps) carries code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Wrap maps an internal package error (thread.ErrNoMem, scheduler.ErrDeadlock)
// to a structured *Error tagged with op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, thread.ErrNoMem):
		return &Error{Op: op, Code: ErrCodeNoMem, Msg: string(ErrCodeNoMem), Inner: err}
	case errors.Is(err, scheduler.ErrDeadlock):
		return &Error{Op: op, Code: ErrCodeDeadlock, Msg: string(ErrCodeDeadlock), Inner: err}
	default:
		return &Error{Op: op, Msg: err.Error(), Inner: err}
	}
}
