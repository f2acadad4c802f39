package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	"github.com/allisson/secretlink/internal/database"
	apperrors "github.com/allisson/secretlink/internal/errors"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
	secretsService "github.com/allisson/secretlink/internal/secrets/service"
)

// secretUseCase implements SecretUseCase.
type secretUseCase struct {
	txManager  database.TxManager
	secretRepo SecretRepository
	discloser  Discloser
	now        func() time.Time
}

// Create generates a fresh identifier and stores the record.
func (s *secretUseCase) Create(
	ctx context.Context,
	ciphertext, iv string,
	expirySeconds uint32,
) (*secretsDomain.Secret, error) {
	secret, err := secretsDomain.NewSecret(ciphertext, iv, expirySeconds, s.now())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate secret id")
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		return s.secretRepo.Create(ctx, secret)
	})
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// State reads the record without locking it.
func (s *secretUseCase) State(ctx context.Context, secretID uuid.UUID) (secretsDomain.State, error) {
	secret, err := s.secretRepo.GetState(ctx, secretID)
	if err != nil {
		if errors.Is(err, secretsDomain.ErrSecretNotFound) {
			return secretsDomain.StateInvalid, nil
		}
		return secretsDomain.StateInvalid, err
	}

	return secretsDomain.EvaluateState(secret, s.now()), nil
}

// Consume rejects malformed keys before any store access and expired records
// before taking a row lock. Consumed and unknown records are both reported as
// not found, matching what the locked read in the disclosure service returns.
func (s *secretUseCase) Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error) {
	key, err := secretsService.DecodeKey(encodedKey)
	if err != nil {
		return "", err
	}
	cryptoDomain.Zero(key)

	state, err := s.State(ctx, secretID)
	if err != nil {
		return "", err
	}
	switch state {
	case secretsDomain.StateInvalid, secretsDomain.StateConsumed:
		return "", secretsDomain.ErrSecretNotFound
	case secretsDomain.StateExpired:
		return "", secretsDomain.ErrSecretGone
	}

	return s.discloser.Consume(ctx, secretID, encodedKey)
}

// Purge deletes dead secrets older than the retention window.
func (s *secretUseCase) Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	if olderThan < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "retention must not be negative")
	}

	before := s.now().UTC().Add(-olderThan)
	if dryRun {
		return s.secretRepo.CountDead(ctx, before)
	}
	return s.secretRepo.DeleteDead(ctx, before)
}

// NewSecretUseCase creates a new SecretUseCase.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	discloser Discloser,
) SecretUseCase {
	return &secretUseCase{
		txManager:  txManager,
		secretRepo: secretRepo,
		discloser:  discloser,
		now:        time.Now,
	}
}
