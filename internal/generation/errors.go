package generation

import (
	"errors"
)

// Failure kinds. Every *Error matches exactly one of these with errors.Is.
var (
	// ErrInvalidRequest is returned when the candy request fails validation.
	ErrInvalidRequest = errors.New("invalid candy request")

	// ErrBackendBusy is returned when the backend stayed overloaded through every retry.
	ErrBackendBusy = errors.New("generation backend is busy")

	// ErrContentBlocked is returned when the backend refused the prompt on safety grounds.
	ErrContentBlocked = errors.New("content blocked by safety filters")

	// ErrInvalidResponse is returned when the model output is empty, malformed or incomplete.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrBackendFailure is returned for any other backend error.
	ErrBackendFailure = errors.New("generation backend request failed")

	// ErrTimeout is returned when the caller's deadline expired during a stage.
	ErrTimeout = errors.New("generation timed out")

	// ErrInvalidConfig is returned when a generator is constructed with missing dependencies.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// Stage identifies the pipeline step a failure came from.
type Stage string

// Pipeline stages.
const (
	StageRequest Stage = "request"
	StageText    Stage = "text"
	StageImage   Stage = "image"
)

// User-facing failure messages.
const (
	msgTextBusy          = "The AI model is currently busy. Please try again in a moment."
	msgTextErrorPrefix   = "Text Generation Error: "
	msgTextBlocked       = "Your request was blocked for safety reasons (%s). Please try a different description."
	msgInvalidStructure  = "The AI failed to generate a valid candy concept structure. Please try again."
	msgIncompleteConcept = "The AI generated an incomplete candy concept. Please try again."
	msgImageBusy         = "The AI image generator is currently busy. Please try again in a moment."
	msgImageErrorPrefix  = "Image Generation Error: "
	msgImageBlocked      = "Image generation was blocked for safety reasons (%s). Please try a different candy idea."
	msgNoCandidates      = "Failed to generate a candy image. The AI returned no candidates."
	msgNoImageData       = "Failed to generate a candy image. The response did not contain image data, which could be due to a safety filter."
	msgTimeout           = "The request timed out. Please try again."
)

// Error is a terminal generation failure. Error() returns only the
// user-facing message; the underlying provider error stays in Cause for
// logging.
type Error struct {
	Stage   Stage
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindName returns a stable snake_case name for the failure kind, for logs
// and events.
func (e *Error) KindName() string {
	return kindName(e.Kind)
}

func newError(stage Stage, kind error, message string, cause error) *Error {
	return &Error{Stage: stage, Kind: kind, Message: message, Cause: cause}
}

func kindName(kind error) string {
	switch {
	case kind == nil:
		return "unknown"
	case errors.Is(kind, ErrBackendBusy):
		return "backend_busy"
	case errors.Is(kind, ErrContentBlocked):
		return "content_blocked"
	case errors.Is(kind, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(kind, ErrBackendFailure):
		return "backend_failure"
	case errors.Is(kind, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(kind, ErrTimeout):
		return "timeout"
	default:
		return kind.Error()
	}
}
