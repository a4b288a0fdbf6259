// Package apierror normalizes failures returned by the generative AI
// backend. It extracts a stable, human-readable message from SDK errors,
// JSON-encoded error payloads and plain errors, and decides whether a
// failure is transient backend overload that is worth retrying.
//
// The same classification is used by the retry wrapper, to decide whether
// to try again, and by the generation orchestrator, to turn the final
// failure into a user-facing message.
package apierror
