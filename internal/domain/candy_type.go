package domain

import (
	"fmt"
	"strings"
)

// CandyType is the kind of candy the user wants invented. The value is
// embedded verbatim in the concept prompt.
type CandyType string

// Supported candy types.
const (
	CandyTypeGummy       CandyType = "Gummy"
	CandyTypeHardCandy   CandyType = "Hard Candy"
	CandyTypeChocolate   CandyType = "Chocolate"
	CandyTypeLollipop    CandyType = "Lollipop"
	CandyTypeCaramel     CandyType = "Caramel"
	CandyTypeMarshmallow CandyType = "Marshmallow"
	CandyTypeJellyBean   CandyType = "Jelly Bean"
	CandyTypeLicorice    CandyType = "Licorice"
)

// DefaultCandyType is preselected when the caller does not choose one.
const DefaultCandyType = CandyTypeGummy

var candyTypes = []CandyType{
	CandyTypeGummy,
	CandyTypeHardCandy,
	CandyTypeChocolate,
	CandyTypeLollipop,
	CandyTypeCaramel,
	CandyTypeMarshmallow,
	CandyTypeJellyBean,
	CandyTypeLicorice,
}

// AllCandyTypes returns the supported candy types in display order.
func AllCandyTypes() []CandyType {
	out := make([]CandyType, len(candyTypes))
	copy(out, candyTypes)
	return out
}

// IsValid reports whether t is one of the supported candy types.
func (t CandyType) IsValid() bool {
	for _, known := range candyTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t CandyType) String() string {
	return string(t)
}

// ParseCandyType resolves user input to a CandyType. Matching ignores case,
// spaces, dashes and underscores, so "hard_candy" and "HardCandy" both
// resolve to CandyTypeHardCandy.
func ParseCandyType(s string) (CandyType, error) {
	key := normalizeCandyType(s)
	if key == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidCandyType)
	}
	for _, known := range candyTypes {
		if normalizeCandyType(string(known)) == key {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCandyType, s)
}

func normalizeCandyType(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
