package errors

import "fmt"

// New creates a GitError with the default classification for code.
//
// Example:
//
//	err := errors.New(errors.CodeNotInitialized, "engine is not initialized")
func New(code ErrorCode, message string) GitError {
	return &gitError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a GitError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeNotFound, "remote %q not found", name)
func Newf(code ErrorCode, format string, args ...interface{}) GitError {
	return New(code, fmt.Sprintf(format, args...))
}
