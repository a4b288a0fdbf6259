package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrEmptyKeywords is returned when a candy request carries no keywords.
	ErrEmptyKeywords = errors.New("keywords cannot be empty")

	// ErrKeywordsTooLong is returned when the keywords exceed MaxKeywordsLength.
	ErrKeywordsTooLong = errors.New("keywords are too long")

	// ErrInvalidCandyType is returned when a candy type is not one of the known values.
	ErrInvalidCandyType = errors.New("invalid candy type")

	// ErrIncompleteConcept is returned when a concept is missing its name or image prompt.
	ErrIncompleteConcept = errors.New("incomplete candy concept")

	// ErrEmptyImage is returned when a candy is built without image bytes.
	ErrEmptyImage = errors.New("image data cannot be empty")
)
