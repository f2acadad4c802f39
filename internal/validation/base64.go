package validation

import (
	"encoding/base64"
	"fmt"

	validation "github.com/jellydator/validation"
)

// Base64URL validates that a string is URL-safe base64 without padding.
var Base64URL = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64url_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
		return validation.NewError("validation_base64url", "must be unpadded URL-safe base64")
	}
	return nil
})

// DecodedLength validates that an unpadded URL-safe base64 string decodes to exactly n bytes.
// Malformed input is left to Base64URL.
func DecodedLength(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok || s == "" {
			return nil
		}
		decoded, err := base64.RawURLEncoding.DecodeString(s)
		if err != nil {
			return nil
		}
		if len(decoded) != n {
			return validation.NewError(
				"validation_decoded_length",
				fmt.Sprintf("must decode to exactly %d bytes", n),
			)
		}
		return nil
	})
}
