package httpdto

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func NewErrorResponse(err string, code string) ErrorResponse {
	return ErrorResponse{
		Error: err,
		Code:  code,
	}
}

// NewValidationErrorResponse lists per-field messages under "fields".
func NewValidationErrorResponse(err string, fields map[string][]string) ErrorResponse {
	return ErrorResponse{
		Error:  err,
		Code:   "INVALID_REQUEST",
		Fields: fields,
	}
}

// MessageResponse is used by the liveness endpoints.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}
