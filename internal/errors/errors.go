// Package errors gives the dialog service coded errors. The code of the
// outermost coded error decides how a caller reacts, so wrapping keeps the
// code unless it is overridden. Metadata attached anywhere in the chain stays
// readable through GetMeta.
package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code classifies a failure
type Code string

const (
	CodeUnknown         Code = "unknown"
	CodeInvalidArgument Code = "invalid_argument"
	CodeNotFound        Code = "not_found"
	CodeAlreadyExists   Code = "already_exists"
	// CodeFailedPrecondition is used when the dialog is in the wrong state,
	// such as a second submit
	CodeFailedPrecondition Code = "failed_precondition"
	// CodeAborted is used when a script ended the dialog
	CodeAborted Code = "aborted"
)

// Error is a coded error with an optional cause and metadata
type Error struct {
	code  Code
	msg   string
	cause error
	meta  map[string]any
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Code reports the code of this link alone
func (e *Error) Code() Code {
	return e.code
}

// WithMeta records a key on this link and returns it for chaining. Call it on
// fresh errors only; package level sentinels are shared.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.meta == nil {
		e.meta = map[string]any{}
	}
	e.meta[key] = value
	return e
}

func coded(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

func NotFound(msg string) *Error { return coded(CodeNotFound, msg) }

func NotFoundf(format string, args ...any) *Error {
	return coded(CodeNotFound, fmt.Sprintf(format, args...))
}

func InvalidArgument(msg string) *Error { return coded(CodeInvalidArgument, msg) }

func InvalidArgumentf(format string, args ...any) *Error {
	return coded(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

func AlreadyExistsf(format string, args ...any) *Error {
	return coded(CodeAlreadyExists, fmt.Sprintf(format, args...))
}

func FailedPrecondition(msg string) *Error { return coded(CodeFailedPrecondition, msg) }

func Aborted(msg string) *Error { return coded(CodeAborted, msg) }

// Wrap adds context to err and keeps its code. A nil err stays nil.
func Wrap(err error, msg string) *Error {
	return WrapWithCode(err, GetCode(err), msg)
}

func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return WrapWithCode(err, GetCode(err), fmt.Sprintf(format, args...))
}

// WrapWithCode adds context to err and reclassifies it
func WrapWithCode(err error, code Code, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, cause: err}
}

// GetCode returns the code of the outermost coded error in the chain
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeUnknown
}

// Is reports whether the outermost coded error in the chain has code
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func IsInvalidArgument(err error) bool { return Is(err, CodeInvalidArgument) }

func IsAlreadyExists(err error) bool { return Is(err, CodeAlreadyExists) }

func IsAborted(err error) bool { return Is(err, CodeAborted) }

// GetMeta merges the metadata of every coded error in the chain. Keys set
// closer to the caller win. It returns nil when nothing was recorded.
func GetMeta(err error) map[string]any {
	var out map[string]any
	for ; err != nil; err = errors.Unwrap(err) {
		e, ok := err.(*Error)
		if !ok || len(e.meta) == 0 {
			continue
		}
		if out == nil {
			out = maps.Clone(e.meta)
			continue
		}
		for k, v := range e.meta {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}
	return out
}
