package errors

import (
	"fmt"
	"maps"
)

// Wrap wraps err with a code and message, keeping err reachable through Unwrap.
//
// When err already is a GitError its classification is kept; otherwise the
// default classification for code applies. Returns nil if err is nil.
//
// Example:
//
//	if err := lib.StrArrayCopy(&dst, src); err != nil {
//	    return errors.Wrap(err, errors.GetCode(err), "failed to copy string array")
//	}
func Wrap(err error, code ErrorCode, message string) GitError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var gitErr GitError
	if As(err, &gitErr) {
		classification = gitErr.Classification()
	}

	return &gitError{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf is Wrap with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) GitError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches a copy of ctx in one step.
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) GitError {
	wrapped := Wrap(err, code, message)
	if wrapped == nil {
		return nil
	}
	if ctx != nil {
		wrapped.(*gitError).context = maps.Clone(ctx)
	}
	return wrapped
}
