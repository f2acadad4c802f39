package domain

import (
	"github.com/allisson/secretlink/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates there is no consumable record for the identifier.
	// A record that never existed and one that was already consumed are reported
	// identically so callers cannot enumerate consumption races.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretGone indicates the record exists but its expiry window has elapsed.
	ErrSecretGone = errors.Wrap(errors.ErrGone, "secret expired")

	// ErrInvalidKey indicates the key does not decode to exactly 32 bytes.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid key")

	// ErrDecryptionFailed indicates the key did not authenticate the ciphertext.
	// The record is left untouched.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrCorruptRecord indicates the stored nonce or ciphertext is malformed.
	// This is an internal fault and maps to a server error.
	ErrCorruptRecord = errors.New("corrupt secret record")

	// ErrSecretIDCollision indicates a freshly generated identifier already exists.
	ErrSecretIDCollision = errors.Wrap(errors.ErrConflict, "secret id collision")
)
