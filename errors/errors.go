package errors

// GitError is the error type returned by every gogit2 package.
//
// Beyond the error interface it exposes a code naming the failure source, a
// retry classification, the bare message, attached context, and the wrapped
// cause for errors.Is and errors.As.
type GitError interface {
	error

	// Code returns the failure source.
	Code() ErrorCode

	// Classification reports whether retrying may succeed.
	Classification() ErrorClassification

	// Message returns the message without code or cause.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}
