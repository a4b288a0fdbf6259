// Package gemini implements the generation package's TextCompleter and
// ImageCompleter ports on top of Google's Gemini API.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the candy pipeline to Google's external Gemini AI service. It
// translates between the backend-neutral generation types and the
// google.golang.org/genai SDK without exposing the SDK to the rest of the
// application.
//
// Key components:
//
// 1. Client:
//   - Holds one genai.Client and the configured text and image model names
//   - CompleteText requests JSON output constrained by a response schema
//   - CompleteImage requests image output only
//
// 2. Conversion:
//   - OutputSchema to genai.Schema
//   - genai responses to generation.TextResponse and generation.ImageResponse,
//     including the prompt block reason
//
// Retries are not done here. SDK errors are returned unchanged so the
// apierror package can classify them.
package gemini
