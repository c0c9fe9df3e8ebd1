package errors

import (
	"encoding/json"
)

// ErrorResponse is the flat JSON form of an error. The wrapped chain is left
// out so engine internals such as paths or refspecs in causes do not leak.
type ErrorResponse struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Classification string                 `json:"classification"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

// ToJSON converts err to an ErrorResponse. Returns nil if err is nil.
// Plain errors become CodeUnknown with their Error() text as the message.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	response := &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        err.Error(),
		Classification: string(GetClassification(err)),
	}

	var gitErr GitError
	if As(err, &gitErr) {
		response.Message = gitErr.Message()
		response.Context = gitErr.Context()
	}
	return response
}

// MarshalJSON lets a GitError be passed to json.Marshal directly.
func (e *gitError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	})
	if err != nil {
		return nil, &gitError{
			code:           CodeInternal,
			classification: ClassificationPermanent,
			message:        "failed to marshal error response",
			cause:          err,
		}
	}
	return data, nil
}
