package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretlink/internal/errors"
	"github.com/allisson/secretlink/internal/metrics"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
	secretsHTTPMocks "github.com/allisson/secretlink/internal/secrets/http/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordConsumeOutcome(ctx context.Context, outcome string) {
	m.Called(ctx, outcome)
}

func (m *mockBusinessMetrics) RecordPurged(ctx context.Context, count int64) {
	m.Called(ctx, count)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "secrets", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "secrets", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestConsumeOutcome(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, metrics.OutcomeDisclosed},
		{secretsDomain.ErrSecretNotFound, metrics.OutcomeNotFound},
		{secretsDomain.ErrSecretGone, metrics.OutcomeExpired},
		{secretsDomain.ErrInvalidKey, metrics.OutcomeInvalidKey},
		{secretsDomain.ErrDecryptionFailed, metrics.OutcomeDecryptionFailed},
		{apperrors.Wrap(secretsDomain.ErrCorruptRecord, "invalid iv"), metrics.OutcomeCorrupt},
		{apperrors.Storage(assert.AnError, "failed to commit"), metrics.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, consumeOutcome(tt.err))
		})
	}
}

func TestNewSecretUseCaseWithMetrics(t *testing.T) {
	decorator := NewSecretUseCaseWithMetrics(&secretsHTTPMocks.MockSecretUseCase{}, &mockBusinessMetrics{})

	assert.NotNil(t, decorator)
	assert.Implements(t, (*SecretUseCase)(nil), decorator)
}

func TestMetricsDecorator(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("Create_Success", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}
		secret := &secretsDomain.Secret{ID: id}

		next.On("Create", ctx, "ct", "iv", uint32(60)).Return(secret, nil).Once()
		expectMetrics(m, ctx, "secret_create", "success")

		result, err := NewSecretUseCaseWithMetrics(next, m).Create(ctx, "ct", "iv", 60)
		require.NoError(t, err)
		assert.Equal(t, secret, result)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("State_Success", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}

		next.On("State", ctx, id).Return(secretsDomain.StateAlive, nil).Once()
		expectMetrics(m, ctx, "secret_state", "success")

		state, err := NewSecretUseCaseWithMetrics(next, m).State(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, secretsDomain.StateAlive, state)
		m.AssertExpectations(t)
	})

	t.Run("Consume_Error", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Consume", ctx, id, "key").Return("", secretsDomain.ErrSecretNotFound).Once()
		expectMetrics(m, ctx, "secret_consume", "error")
		m.On("RecordConsumeOutcome", ctx, metrics.OutcomeNotFound).Return().Once()

		_, err := NewSecretUseCaseWithMetrics(next, m).Consume(ctx, id, "key")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
		m.AssertExpectations(t)
	})

	t.Run("Consume_Success", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Consume", ctx, id, "key").Return("hello", nil).Once()
		expectMetrics(m, ctx, "secret_consume", "success")
		m.On("RecordConsumeOutcome", ctx, metrics.OutcomeDisclosed).Return().Once()

		plaintext, err := NewSecretUseCaseWithMetrics(next, m).Consume(ctx, id, "key")
		require.NoError(t, err)
		assert.Equal(t, "hello", plaintext)
		m.AssertExpectations(t)
	})

	t.Run("Purge_Delete", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Purge", ctx, time.Hour, false).Return(int64(3), nil).Once()
		expectMetrics(m, ctx, "secret_purge", "success")
		m.On("RecordPurged", ctx, int64(3)).Return().Once()

		count, err := NewSecretUseCaseWithMetrics(next, m).Purge(ctx, time.Hour, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		m.AssertExpectations(t)
	})

	t.Run("Purge_Success", func(t *testing.T) {
		next := &secretsHTTPMocks.MockSecretUseCase{}
		m := &mockBusinessMetrics{}

		next.On("Purge", ctx, time.Hour, true).Return(int64(5), nil).Once()
		expectMetrics(m, ctx, "secret_purge", "success")

		count, err := NewSecretUseCaseWithMetrics(next, m).Purge(ctx, time.Hour, true)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		m.AssertExpectations(t)
	})
}
