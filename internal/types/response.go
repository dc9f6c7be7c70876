package types

// Response is the envelope every API response uses.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success wraps data in a successful envelope. An empty message becomes
// "Success".
func Success(data any, message string) Response {
	if message == "" {
		message = "Success"
	}
	return Response{Success: true, Message: message, Data: data}
}

// Failure builds an error envelope.
func Failure(message string, errs ...FieldError) Response {
	return Response{Success: false, Message: message, Errors: errs}
}
