package dto

const statusSuccess = "success"

// BasicResponse is the envelope of every API answer. Status is "success" on
// success and the boolean false on failure.
type BasicResponse struct {
	Status  any    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func NewBasicResponse(ok bool, message string) BasicResponse {
	if ok {
		return NewSuccessResponse(message, nil)
	}
	return BasicResponse{
		Status:  false,
		Message: message,
	}
}

func NewSuccessResponse(message string, data any) BasicResponse {
	return BasicResponse{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	}
}
