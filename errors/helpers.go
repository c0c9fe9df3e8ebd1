package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode returns the code of the outermost GitError in err's chain.
// Returns CodeUnknown for nil or plain errors.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeNotInitialized {
//	    // open a guard first
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var gitErr GitError
	if stderrors.As(err, &gitErr) {
		return gitErr.Code()
	}
	return CodeUnknown
}

// HasCode reports whether any GitError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var gitErr GitError
		if !stderrors.As(err, &gitErr) {
			return false
		}
		if gitErr.Code() == code {
			return true
		}
		err = gitErr.Unwrap()
	}
	return false
}

// GetClassification returns the classification of the outermost GitError in
// err's chain, or ClassificationPermanent for nil or plain errors.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var gitErr GitError
	if stderrors.As(err, &gitErr) {
		return gitErr.Classification()
	}
	return ClassificationPermanent
}

// IsRetryable reports whether err is classified as retryable.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
