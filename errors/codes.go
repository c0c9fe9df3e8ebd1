package errors

// ErrorCode identifies the source of a failure.
// Codes are strings so they read well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Engine lifecycle errors.

	// CodeNotInitialized indicates an engine call was made without an open guard.
	CodeNotInitialized ErrorCode = "ENGINE_NOT_INITIALIZED"

	// CodeInitFailed indicates the engine could not be initialized.
	CodeInitFailed ErrorCode = "ENGINE_INIT_FAILED"

	// CodeShutdownFailed indicates the engine could not be shut down.
	CodeShutdownFailed ErrorCode = "ENGINE_SHUTDOWN_FAILED"

	// CodeVersionUnavailable indicates the engine could not report its version.
	CodeVersionUnavailable ErrorCode = "VERSION_UNAVAILABLE"

	// CodeAllocationFailed indicates the engine allocator returned no memory.
	CodeAllocationFailed ErrorCode = "ALLOCATION_FAILED"

	// Repository errors.

	// CodeNotFound indicates a repository, reference, tag, or remote does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the object to create already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates the repository state prevents the operation.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeUnauthorized indicates missing or rejected credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates an argument is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates engine options are invalid.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Transport errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Environment errors.

	// CodeNotSupported indicates the operation is unavailable in this environment,
	// such as CLI worktree operations on an in-memory filesystem.
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"

	// CodeExecutionFailed indicates an external git command failed.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeInternal indicates an internal error in the binding.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
