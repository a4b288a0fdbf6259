package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BoldMakerAI/ai-candy-generator/internal/domain"
	"github.com/BoldMakerAI/ai-candy-generator/internal/generation"
	"github.com/BoldMakerAI/ai-candy-generator/internal/watermark"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, domain.ErrEmptyKeywords),
		errors.Is(err, domain.ErrKeywordsTooLong),
		errors.Is(err, domain.ErrInvalidCandyType),
		errors.Is(err, watermark.ErrInvalidDataURI),
		errors.Is(err, watermark.ErrUnsupportedImage):
		return http.StatusBadRequest

	// Refused by the backend safety filters
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Backend overloaded after retries
	case errors.Is(err, generation.ErrBackendBusy):
		return http.StatusServiceUnavailable

	// Deadline expired before the backend answered
	case errors.Is(err, generation.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Unusable model output or other backend failure
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrBackendFailure):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	// Generation failures already carry a user-facing message.
	var genErr *generation.Error
	if errors.As(err, &genErr) && genErr.Message != "" {
		return genErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrEmptyKeywords):
		return "Please enter some keywords to describe your candy."
	case errors.Is(err, domain.ErrKeywordsTooLong):
		return fmt.Sprintf("Keywords must be at most %d characters.", domain.MaxKeywordsLength)
	case errors.Is(err, domain.ErrInvalidCandyType):
		return "Unknown candy type."
	case errors.Is(err, watermark.ErrInvalidDataURI):
		return "Invalid image data."
	case errors.Is(err, watermark.ErrUnsupportedImage):
		return "Unsupported image format."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'DownloadCandyRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
