package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	cryptoService "github.com/allisson/secretlink/internal/crypto/service"
)

// Sealed holds the producer-side encoding of an encrypted secret. Ciphertext and IV
// are registered with the server; Key only ever travels in the share link.
type Sealed struct {
	Key        string
	IV         string
	Ciphertext string
}

// Seal encrypts plaintext under a fresh random key, the way a browser client would
// before calling the generate endpoint.
func Seal(aeadManager cryptoService.AEADManager, alg cryptoDomain.Algorithm, plaintext []byte) (*Sealed, error) {
	key := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	aead, err := aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	ciphertext, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Key:        base64.RawURLEncoding.EncodeToString(key),
		IV:         base64.RawURLEncoding.EncodeToString(nonce),
		Ciphertext: base64.RawURLEncoding.EncodeToString(ciphertext),
	}, nil
}
