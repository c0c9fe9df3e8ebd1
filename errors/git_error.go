package errors

import (
	"fmt"
	"maps"
)

// gitError is the only implementation of GitError.
type gitError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error formats as "[CODE] message" or "[CODE] message: cause".
func (e *gitError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *gitError) Code() ErrorCode {
	return e.code
}

func (e *gitError) Classification() ErrorClassification {
	return e.classification
}

func (e *gitError) Message() string {
	return e.message
}

// Context returns a copy so callers cannot mutate the error.
func (e *gitError) Context() map[string]interface{} {
	if e.context == nil {
		return nil
	}
	return maps.Clone(e.context)
}

func (e *gitError) Unwrap() error {
	return e.cause
}

// asGitError returns err as a GitError, converting plain errors to CodeUnknown.
func asGitError(err error) GitError {
	var gitErr GitError
	if As(err, &gitErr) {
		return gitErr
	}
	return &gitError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
