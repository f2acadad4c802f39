package dto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validIV() string {
	return base64.RawURLEncoding.EncodeToString(make([]byte, 12))
}

func TestGenerateURLRequest_Normalize(t *testing.T) {
	t.Run("UsesCiperTextWhenCiphertextMissing", func(t *testing.T) {
		req := GenerateURLRequest{CiperText: "abc"}
		req.Normalize()
		assert.Equal(t, "abc", req.Ciphertext)
		assert.Empty(t, req.CiperText)
	})

	t.Run("CiphertextWins", func(t *testing.T) {
		req := GenerateURLRequest{CiperText: "abc", Ciphertext: "xyz"}
		req.Normalize()
		assert.Equal(t, "xyz", req.Ciphertext)
	})
}

func TestGenerateURLRequest_Validate(t *testing.T) {
	limits := Limits{MaxExpirySeconds: 3600, MaxCiphertextLength: 16}

	tests := []struct {
		name      string
		req       GenerateURLRequest
		shouldErr bool
		errField  string
	}{
		{
			name: "valid",
			req:  GenerateURLRequest{Ciphertext: "c2VjcmV0", IV: validIV(), Expiry: 60},
		},
		{
			name: "valid without expiry",
			req:  GenerateURLRequest{Ciphertext: "c2VjcmV0", IV: validIV()},
		},
		{
			name:      "missing ciphertext",
			req:       GenerateURLRequest{IV: validIV()},
			shouldErr: true,
			errField:  "ciphertext",
		},
		{
			name:      "padded ciphertext",
			req:       GenerateURLRequest{Ciphertext: "YQ==", IV: validIV()},
			shouldErr: true,
			errField:  "ciphertext",
		},
		{
			name:      "ciphertext too long",
			req:       GenerateURLRequest{Ciphertext: strings.Repeat("A", 20), IV: validIV()},
			shouldErr: true,
			errField:  "ciphertext",
		},
		{
			name:      "missing iv",
			req:       GenerateURLRequest{Ciphertext: "c2VjcmV0"},
			shouldErr: true,
			errField:  "iv",
		},
		{
			name: "short iv",
			req: GenerateURLRequest{
				Ciphertext: "c2VjcmV0",
				IV:         base64.RawURLEncoding.EncodeToString(make([]byte, 8)),
			},
			shouldErr: true,
			errField:  "iv",
		},
		{
			name:      "expiry over limit",
			req:       GenerateURLRequest{Ciphertext: "c2VjcmV0", IV: validIV(), Expiry: 3601},
			shouldErr: true,
			errField:  "expiry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(limits)
			if tt.shouldErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errField)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("ZeroLimitsDisableCaps", func(t *testing.T) {
		req := GenerateURLRequest{Ciphertext: strings.Repeat("A", 64), IV: validIV(), Expiry: 1 << 31}
		assert.NoError(t, req.Validate(Limits{}))
	})
}
