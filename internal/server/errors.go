package server

import (
	"github.com/gin-gonic/gin"
)

// Error codes of the lint endpoint.
const (
	codeMissingFile     = "missing_file"
	codeInvalidFileType = "invalid_file_type"
	codeEmptyFile       = "empty_file"
	codeFileTooLarge    = "file_too_large"
	codeInvalidJSON     = "invalid_json"
	codeInvalidOptions  = "invalid_options"
	codeInvalidRequest  = "invalid_request"
	codeReadError       = "file_read_error"
	codePDFConversion   = "pdf_conversion_error"
	codeUnexpected      = "unexpected_error"
)

// ErrorBody is the JSON shape of every non-2xx answer.
type ErrorBody struct {
	Status    string         `json:"status"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details"`
}

func abortError(c *gin.Context, status int, errorType, message string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	c.AbortWithStatusJSON(status, ErrorBody{
		Status:    "error",
		ErrorType: errorType,
		Message:   message,
		Details:   details,
	})
}
