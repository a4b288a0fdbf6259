package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxKeywordsLength bounds the free-text description, in characters.
const MaxKeywordsLength = 500

// PNGDataURIPrefix prefixes every Candy.ImageURL.
const PNGDataURIPrefix = "data:image/png;base64,"

// CandyRequest is what the user asks for: a free-text idea plus a candy type.
type CandyRequest struct {
	Keywords  string    `json:"keywords"`
	CandyType CandyType `json:"candyType"`
}

// NewCandyRequest trims the keywords, resolves the candy type and validates
// the result. An empty candy type falls back to DefaultCandyType.
func NewCandyRequest(keywords, candyType string) (CandyRequest, error) {
	t := DefaultCandyType
	if strings.TrimSpace(candyType) != "" {
		parsed, err := ParseCandyType(candyType)
		if err != nil {
			return CandyRequest{}, err
		}
		t = parsed
	}

	req := CandyRequest{
		Keywords:  strings.TrimSpace(keywords),
		CandyType: t,
	}
	if err := req.Validate(); err != nil {
		return CandyRequest{}, err
	}
	return req, nil
}

// Validate checks that the request has usable keywords and a known type.
func (r CandyRequest) Validate() error {
	if strings.TrimSpace(r.Keywords) == "" {
		return ErrEmptyKeywords
	}
	if utf8.RuneCountInString(r.Keywords) > MaxKeywordsLength {
		return fmt.Errorf("%w: maximum is %d characters", ErrKeywordsTooLong, MaxKeywordsLength)
	}
	if !r.CandyType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCandyType, r.CandyType)
	}
	return nil
}

// CandyConcept is the intermediate result of the text stage: a name and a
// purely visual description of a single piece of candy.
type CandyConcept struct {
	Name        string `json:"name"`
	ImagePrompt string `json:"imagePrompt"`
}

// Validate requires both fields to be present and non-blank.
func (c CandyConcept) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrIncompleteConcept)
	}
	if strings.TrimSpace(c.ImagePrompt) == "" {
		return fmt.Errorf("%w: missing image prompt", ErrIncompleteConcept)
	}
	return nil
}

// Candy is the final result returned to callers.
type Candy struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// NewCandy builds a Candy whose ImageURL embeds png as a base64 data URI.
func NewCandy(name string, png []byte) (*Candy, error) {
	if len(png) == 0 {
		return nil, ErrEmptyImage
	}
	return &Candy{
		Name:     name,
		ImageURL: PNGDataURIPrefix + base64.StdEncoding.EncodeToString(png),
	}, nil
}
