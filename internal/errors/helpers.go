package errors

import (
	"errors"
)

// As is errors.As narrowed to *Error
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

func asError(err error) (*Error, bool) {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return nil, false
	}
	return e, true
}

// GetCode returns the code of the outermost *Error in err's chain.
// nil is CodeOK and uncoded errors are CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if e, ok := asError(err); ok {
		return e.Code
	}
	return CodeInternal
}

func GetMeta(err error) map[string]any {
	if e, ok := asError(err); ok {
		return e.Meta
	}
	return nil
}

// GetMessage returns the caller-facing message, without the cause chain
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func hasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

func IsNotFound(err error) bool           { return hasCode(err, CodeNotFound) }
func IsInvalidArgument(err error) bool    { return hasCode(err, CodeInvalidArgument) }
func IsResourceExhausted(err error) bool  { return hasCode(err, CodeResourceExhausted) }
func IsFailedPrecondition(err error) bool { return hasCode(err, CodeFailedPrecondition) }
func IsAborted(err error) bool            { return hasCode(err, CodeAborted) }
func IsUnavailable(err error) bool        { return hasCode(err, CodeUnavailable) }
func IsInternal(err error) bool           { return hasCode(err, CodeInternal) }

// IsRetryable reports whether err's code allows repeating the same request
func IsRetryable(err error) bool {
	return err != nil && GetCode(err).Retryable()
}
