package errors

// ErrorClassification tells callers whether retrying an operation may succeed.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures such as network errors.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will recur on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable reports whether the classification is retryable.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// retryableCodes lists the codes classified as retryable by default.
// Every other code is permanent.
var retryableCodes = map[ErrorCode]bool{
	CodeNetwork: true,
	CodeTimeout: true,
	// The allocator may recover once other arrays are released.
	CodeAllocationFailed: true,
}

func getDefaultClassification(code ErrorCode) ErrorClassification {
	if retryableCodes[code] {
		return ClassificationRetryable
	}
	return ClassificationPermanent
}
