// Package domain defines the one-time secret record and its read-time state machine.
//
// A secret is stored as opaque ciphertext and nonce supplied by the producer. The
// service never sees the key. State is derived from the stored fields and the
// current time on every read; nothing is ever written to expire a record.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret is the sole persisted entity.
type Secret struct {
	// ID is a random (v4) identifier assigned at creation and never reused.
	ID uuid.UUID
	// Ciphertext is the producer-encoded sealed secret. The server never inspects it.
	Ciphertext string
	// IV is the producer-encoded AEAD nonce paired with Ciphertext.
	IV string
	// ExpirySeconds is the lifetime after CreatedAt; nil means the secret never time-expires.
	ExpirySeconds *uint32
	// Consumed flips to true exactly once, on successful disclosure.
	Consumed bool
	// CreatedAt is the UTC timestamp when the secret was registered.
	CreatedAt time.Time
}

// NewSecret builds an unconsumed record. An expiry of 0 means no expiry.
func NewSecret(ciphertext, iv string, expirySeconds uint32, now time.Time) (*Secret, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	secret := &Secret{
		ID:         id,
		Ciphertext: ciphertext,
		IV:         iv,
		CreatedAt:  now.UTC(),
	}
	if expirySeconds > 0 {
		secret.ExpirySeconds = &expirySeconds
	}

	return secret, nil
}

// ExpiresAt returns the instant the secret stops being readable, if it has one.
func (s *Secret) ExpiresAt() (time.Time, bool) {
	if s.ExpirySeconds == nil {
		return time.Time{}, false
	}
	return s.CreatedAt.Add(time.Duration(*s.ExpirySeconds) * time.Second), true
}

// Expired reports whether the expiry window has elapsed at now.
func (s *Secret) Expired(now time.Time) bool {
	expiresAt, ok := s.ExpiresAt()
	return ok && !now.Before(expiresAt)
}

// State classifies the secret at now. Consumed takes precedence over Expired.
func (s *Secret) State(now time.Time) State {
	switch {
	case s.Consumed:
		return StateConsumed
	case s.Expired(now):
		return StateExpired
	default:
		return StateAlive
	}
}

// EvaluateState classifies an optional record. A missing record is always Invalid.
func EvaluateState(secret *Secret, now time.Time) State {
	if secret == nil {
		return StateInvalid
	}
	return secret.State(now)
}
