// Package generation turns a candy request into a named candy with a
// product image. It owns the two-stage pipeline: a schema-constrained text
// call that invents the concept, followed by an image call that renders it.
//
// The AI backend is reached only through the TextCompleter and
// ImageCompleter ports, implemented in platform/gemini. Both calls go
// through the retry package. Every failure leaving this package is an
// *Error whose message is safe to show to the user.
package generation
