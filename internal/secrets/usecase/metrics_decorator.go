package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/secretlink/internal/errors"
	"github.com/allisson/secretlink/internal/metrics"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

// Create records metrics for secret registration.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	ciphertext, iv string,
	expirySeconds uint32,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, ciphertext, iv, expirySeconds)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// State records metrics for state lookups.
func (s *secretUseCaseWithMetrics) State(
	ctx context.Context,
	secretID uuid.UUID,
) (secretsDomain.State, error) {
	start := time.Now()
	state, err := s.next.State(ctx, secretID)
	s.record(ctx, "secret_state", start, err)
	return state, err
}

// Consume records metrics for disclosure attempts.
func (s *secretUseCaseWithMetrics) Consume(
	ctx context.Context,
	secretID uuid.UUID,
	encodedKey string,
) (string, error) {
	start := time.Now()
	plaintext, err := s.next.Consume(ctx, secretID, encodedKey)
	s.record(ctx, "secret_consume", start, err)
	s.metrics.RecordConsumeOutcome(ctx, consumeOutcome(err))
	return plaintext, err
}

// Purge records metrics for retention runs.
func (s *secretUseCaseWithMetrics) Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := s.next.Purge(ctx, olderThan, dryRun)
	s.record(ctx, "secret_purge", start, err)
	if err == nil && !dryRun {
		s.metrics.RecordPurged(ctx, count)
	}
	return count, err
}

func consumeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeDisclosed
	case errors.Is(err, secretsDomain.ErrSecretNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, secretsDomain.ErrSecretGone):
		return metrics.OutcomeExpired
	case errors.Is(err, secretsDomain.ErrInvalidKey):
		return metrics.OutcomeInvalidKey
	case errors.Is(err, secretsDomain.ErrDecryptionFailed):
		return metrics.OutcomeDecryptionFailed
	case errors.Is(err, secretsDomain.ErrCorruptRecord):
		return metrics.OutcomeCorrupt
	default:
		return metrics.OutcomeError
	}
}
