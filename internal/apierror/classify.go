package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// FallbackMessage is used when an error carries no usable text.
const FallbackMessage = "An unexpected error occurred."

// Classification is the normalized view of a backend failure.
type Classification struct {
	// Message is the canonical human-readable message.
	Message string

	// Retryable reports transient backend overload.
	Retryable bool

	// StatusCode is the provider status code when one was available, else 0.
	StatusCode int
}

// jsonErrorEnvelope matches provider payloads shaped like
// {"error": {"code": 503, "message": "...", "status": "UNAVAILABLE"}}.
type jsonErrorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Classify maps err to a Classification. Structured SDK errors are checked
// first, then JSON-encoded messages, then the raw error text.
func Classify(err error) Classification {
	c := Classification{Message: FallbackMessage}
	if err == nil {
		return c
	}

	if msg, code, ok := fromAPIError(err); ok {
		c.StatusCode = code
		if msg != "" {
			c.Message = msg
		} else if raw := err.Error(); raw != "" {
			c.Message = raw
		}
	} else if raw := err.Error(); raw != "" {
		c.Message = raw
		if msg, code, ok := fromJSON(raw); ok {
			c.Message = msg
			c.StatusCode = code
		}
	}

	c.Retryable = IsOverloaded(c.Message) || c.StatusCode == http.StatusServiceUnavailable
	return c
}

// Message returns the canonical message for err.
func Message(err error) string {
	return Classify(err).Message
}

// IsRetryable reports whether err is transient backend overload.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Retryable
}

// IsOverloaded reports whether message, ignoring case, mentions a 503 or an
// overloaded backend.
func IsOverloaded(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "503") || strings.Contains(lower, "overloaded")
}

func fromAPIError(err error) (string, int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Message, apiErrPtr.Code, true
	}
	return "", 0, false
}

func fromJSON(raw string) (string, int, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return "", 0, false
	}
	var env jsonErrorEnvelope
	if err := sonic.UnmarshalString(trimmed, &env); err != nil {
		return "", 0, false
	}
	if env.Error == nil || env.Error.Message == "" {
		return "", 0, false
	}
	return env.Error.Message, env.Error.Code, true
}
