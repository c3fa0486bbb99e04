package tablesnap

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Application error codes.
const (
	EINTERNAL  = "internal"
	EINVALID   = "invalid"
	ENETWORK   = "network"
	ENOTABLE   = "no_table"
	EMALFORMED = "malformed"
	EIO        = "io"
	ENOTFOUND  = "not_found"
)

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Path is the filesystem path involved in an EIO error.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("tablesnap error: code=%s path=%s message=%s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("tablesnap error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error."
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorPath returns the filesystem path attached to an application error.
func ErrorPath(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapIO returns an EIO error for path that wraps the underlying cause.
// The message names the failure kind so callers can report it without
// inspecting the cause.
func WrapIO(path string, err error) *Error {
	return &Error{
		Code:    EIO,
		Message: fmt.Sprintf("%s: %s", ioKind(err), path),
		Path:    path,
		Err:     err,
	}
}

func ioKind(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrExist):
		return "already exists"
	case errors.Is(err, syscall.ENOSPC):
		return "disk full"
	default:
		return "i/o failure"
	}
}
