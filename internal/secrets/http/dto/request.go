// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	customValidation "github.com/allisson/secretlink/internal/validation"
)

// GenerateURLRequest is accepted as a form post or JSON. The browser client sends
// the ciphertext as "ciperText"; "ciphertext" is accepted as well.
type GenerateURLRequest struct {
	CiperText  string `form:"ciperText"  json:"ciperText"`
	Ciphertext string `form:"ciphertext" json:"ciphertext"`
	IV         string `form:"iv"         json:"iv"`
	Expiry     uint32 `form:"expiry"     json:"expiry"`
}

// Limits bounds what a producer may register.
type Limits struct {
	MaxExpirySeconds    uint32
	MaxCiphertextLength int
}

// Normalize folds the alternate ciphertext field into Ciphertext.
func (r *GenerateURLRequest) Normalize() {
	if r.Ciphertext == "" {
		r.Ciphertext = r.CiperText
	}
	r.CiperText = ""
}

// Validate checks the request against limits. Zero limits disable the matching check.
func (r *GenerateURLRequest) Validate(limits Limits) error {
	ciphertextRules := []validation.Rule{
		validation.Required,
		customValidation.Base64URL,
	}
	if limits.MaxCiphertextLength > 0 {
		ciphertextRules = append(ciphertextRules, validation.RuneLength(0, limits.MaxCiphertextLength))
	}

	expiryRules := []validation.Rule{}
	if limits.MaxExpirySeconds > 0 {
		expiryRules = append(expiryRules, validation.Max(limits.MaxExpirySeconds))
	}

	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext, ciphertextRules...),
		validation.Field(&r.IV,
			validation.Required,
			customValidation.Base64URL,
			customValidation.DecodedLength(cryptoDomain.NonceSize),
		),
		validation.Field(&r.Expiry, expiryRules...),
	)
}
