package util

// Envelope is the uniform response body shape. Every endpoint, success or
// failure, responds with one of these.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func Success(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

func Failure(message string, errs any) Envelope {
	return Envelope{Success: false, Message: message, Errors: errs}
}
