package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Error is a coded error with an optional cause and metadata.
// The Message is what reaches the caller; the Cause stays server side.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code, so
// errors.Is(err, errors.NotFound("")) works as a code check.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// WithMeta sets a metadata key and returns e for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 1)
	}
	e.Meta[key] = value
	return e
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. A coded cause keeps its code and a copy of its
// metadata; anything else is reported as CodeInternal.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	return wrap(err, GetCode(err), message)
}

func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return wrap(err, GetCode(err), fmt.Sprintf(format, args...))
}

// WrapWithCode is Wrap with the code replaced, used where a lower layer's
// failure means something different to the caller.
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return wrap(err, code, message)
}

func wrap(err error, code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
		Meta:    maps.Clone(GetMeta(err)),
	}
}

// Shorthand constructors for the codes the service actually returns.

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// ResourceExhausted signals a capacity limit, such as a full roster.
func ResourceExhausted(message string) *Error { return New(CodeResourceExhausted, message) }

func ResourceExhaustedf(format string, args ...any) *Error {
	return Newf(CodeResourceExhausted, format, args...)
}

// FailedPrecondition signals an operation that is invalid in the current
// state, such as choosing an option on a finished story.
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

// Abortedf signals a concurrent request already holding the resource.
func Abortedf(format string, args ...any) *Error { return Newf(CodeAborted, format, args...) }

func Internal(message string) *Error { return New(CodeInternal, message) }

func Unavailable(message string) *Error { return New(CodeUnavailable, message) }

func Unavailablef(format string, args ...any) *Error {
	return Newf(CodeUnavailable, format, args...)
}

// DataLossf signals stored data that could not be decoded.
func DataLossf(format string, args ...any) *Error { return Newf(CodeDataLoss, format, args...) }
