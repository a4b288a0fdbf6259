package shared

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes bounds request bodies. Download requests carry a whole
// base64 image, so the limit is generous.
const MaxBodyBytes = 16 << 20

// ErrEmptyBody is returned by DecodeJSON for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return sonic.ConfigDefault.NewDecoder(body).Decode(v)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if vr, ok := v.(interface{ Validate() error }); ok {
		return vr.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
