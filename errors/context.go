package errors

import "maps"

// WithContext returns a copy of err with key set to value.
// Plain errors are converted to CodeUnknown first. Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "remote", "origin")
func WithContext(err error, key string, value interface{}) GitError {
	if err == nil {
		return nil
	}
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns a copy of err with every entry of ctx merged into its
// context. New keys override existing ones. Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) GitError {
	if err == nil {
		return nil
	}

	gitErr := asGitError(err)
	merged := gitErr.Context()
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	maps.Copy(merged, ctx)

	return &gitError{
		code:           gitErr.Code(),
		classification: gitErr.Classification(),
		message:        gitErr.Message(),
		context:        merged,
		cause:          gitErr.Unwrap(),
	}
}

// WithClassification returns a copy of err with its classification replaced.
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) GitError {
	if err == nil {
		return nil
	}

	gitErr := asGitError(err)
	return &gitError{
		code:           gitErr.Code(),
		classification: classification,
		message:        gitErr.Message(),
		context:        gitErr.Context(),
		cause:          gitErr.Unwrap(),
	}
}
