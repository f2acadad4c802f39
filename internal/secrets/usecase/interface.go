// Package usecase orchestrates one-time secret creation, state inspection,
// disclosure and retention.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	GetState(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	CountDead(ctx context.Context, before time.Time) (int64, error)
	DeleteDead(ctx context.Context, before time.Time) (int64, error)
}

// Discloser decrypts and consumes a secret in a single transaction.
type Discloser interface {
	Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error)
}

// SecretUseCase defines the interface for one-time secret business logic.
type SecretUseCase interface {
	// Create registers producer-encrypted ciphertext and its nonce. An expiry of 0
	// means the secret only ends by being consumed.
	Create(ctx context.Context, ciphertext, iv string, expirySeconds uint32) (*secretsDomain.Secret, error)

	// State classifies the secret without mutating it. Unknown identifiers are
	// reported as StateInvalid, not as an error.
	State(ctx context.Context, secretID uuid.UUID) (secretsDomain.State, error)

	// Consume returns the plaintext exactly once.
	Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error)

	// Purge removes consumed and expired secrets created more than olderThan ago.
	// With dryRun set it only counts them.
	Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error)
}
