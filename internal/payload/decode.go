// Package payload decodes and validates JSON request bodies.
package payload

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jellydator/validation"
)

// maxBodyBytes bounds JSON bodies; the largest legal payload is far smaller.
const maxBodyBytes = 64 << 10

// normalizer is implemented by payloads that clean their fields before validation.
type normalizer interface {
	Normalize()
}

// DecodeAndValidate decodes the JSON body into object, normalizes it and, if
// object implements validation.Validatable, validates it.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, object any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(object); err != nil {
		return fmt.Errorf("decoding json payload: %w", err)
	}

	if n, ok := object.(normalizer); ok {
		n.Normalize()
	}

	t, ok := object.(validation.Validatable)
	if !ok {
		return nil
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validating payload: %w", err)
	}
	return nil
}
