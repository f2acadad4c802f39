// Package domain defines the cryptographic primitives shared by secret disclosure
// and the producer-side sealing helper.
package domain

import "fmt"

// Algorithm represents the AEAD cipher used to seal a secret.
//
// Both supported algorithms take a 256-bit key, a 96-bit nonce and append a
// 128-bit authentication tag to the ciphertext, so a stored record does not
// need to carry its algorithm for the nonce and key size checks to hold.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, the cipher browsers expose through WebCrypto.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the symmetric key length in bytes.
	KeySize = 32

	// NonceSize is the AEAD nonce length in bytes.
	NonceSize = 12
)

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}
