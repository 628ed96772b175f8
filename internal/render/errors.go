package render

import (
	"fmt"
	"net/http"
)

// ErrorType is the wire code of a conversion failure.
type ErrorType string

const (
	ErrNotConfigured    ErrorType = "gotenberg_not_configured"
	ErrConversionFailed ErrorType = "gotenberg_conversion_failed"
	ErrEmptyResponse    ErrorType = "empty_pdf_response"
	ErrInvalidResponse  ErrorType = "invalid_pdf_response"
	ErrTimeout          ErrorType = "gotenberg_timeout"
	ErrConnection       ErrorType = "gotenberg_connection_error"
)

// Error describes why a report could not be converted.
type Error struct {
	Type    ErrorType
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus is the status an API handler answers with for this failure.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case ErrNotConfigured:
		return http.StatusServiceUnavailable
	case ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// statusMessage mirrors the wording users already see for common Gotenberg answers.
func statusMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Gotenberg rejected the document (bad request)"
	case http.StatusUnprocessableEntity:
		return "Gotenberg could not process the document (unprocessable entity)"
	case http.StatusInternalServerError:
		return "Gotenberg internal server error"
	default:
		return fmt.Sprintf("Gotenberg conversion failed with status %d", code)
	}
}
