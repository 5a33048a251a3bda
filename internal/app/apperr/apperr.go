// Package apperr defines the application-layer error shape shared by all
// services. Every precondition failure surfaces as a distinct code so the
// caller-facing UI can render distinct messages; handlers map Status to the
// HTTP response.
package apperr

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}
