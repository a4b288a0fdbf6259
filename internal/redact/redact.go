// Package redact scrubs credentials and bulky payloads from strings before
// they are logged. Backend errors can echo request URLs (with the API key as
// a query parameter), auth headers and whole base64 images; none of that
// should reach the logs.
package redact

import (
	"regexp"
)

// Redaction placeholders.
const (
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	StackTracePlaceholder         = "[STACK_TRACE_REDACTED]"
	TruncatedPlaceholder          = "[TRUNCATED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; later rules see the output of earlier ones.
var rules = []rule{
	// Inline base64 payloads, e.g. generated images.
	{
		pattern:     regexp.MustCompile(`(data:[\w.+-]+/[\w.+-]+;base64,)[A-Za-z0-9+/=]{16,}`),
		replacement: "${1}" + TruncatedPlaceholder,
	},
	// Google API keys.
	{
		pattern:     regexp.MustCompile(`AIza[0-9A-Za-z_-]{20,}`),
		replacement: RedactedKeyPlaceholder,
	},
	// Keys passed as URL query parameters.
	{
		pattern:     regexp.MustCompile(`(?i)([?&](?:key|api_key|apikey|access_token)=)[^&\s"']+`),
		replacement: "${1}" + RedactedKeyPlaceholder,
	},
	// Gemini key header.
	{
		pattern:     regexp.MustCompile(`(?i)(x-goog-api-key["']?\s*[:=]\s*["']?)[^\s"',]+`),
		replacement: "${1}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]{8,}`),
		replacement: "${1}" + RedactedCredentialPlaceholder,
	},
	// Generic key=value secrets.
	{
		pattern:     regexp.MustCompile(`(?i)\b(api[_-]?key|secret|password)(["']?\s*[:=]\s*["']?)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: StackTracePlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
