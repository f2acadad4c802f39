package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecret(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))

	t.Run("WithExpiry", func(t *testing.T) {
		secret, err := NewSecret("ct", "iv", 60, now)
		require.NoError(t, err)

		assert.Equal(t, uuid.Version(4), secret.ID.Version())
		assert.Equal(t, "ct", secret.Ciphertext)
		assert.Equal(t, "iv", secret.IV)
		assert.False(t, secret.Consumed)
		assert.Equal(t, time.UTC, secret.CreatedAt.Location())
		require.NotNil(t, secret.ExpirySeconds)
		assert.Equal(t, uint32(60), *secret.ExpirySeconds)
	})

	t.Run("ZeroMeansNoExpiry", func(t *testing.T) {
		secret, err := NewSecret("ct", "iv", 0, now)
		require.NoError(t, err)
		assert.Nil(t, secret.ExpirySeconds)

		_, ok := secret.ExpiresAt()
		assert.False(t, ok)
	})

	t.Run("UniqueIDs", func(t *testing.T) {
		a, err := NewSecret("ct", "iv", 0, now)
		require.NoError(t, err)
		b, err := NewSecret("ct", "iv", 0, now)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestSecret_State(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expiry := uint32(60)

	tests := []struct {
		name     string
		secret   Secret
		elapsed  time.Duration
		expected State
	}{
		{
			name:     "AliveWithoutExpiry",
			secret:   Secret{CreatedAt: createdAt},
			elapsed:  24 * 365 * time.Hour,
			expected: StateAlive,
		},
		{
			name:     "AliveBeforeDeadline",
			secret:   Secret{CreatedAt: createdAt, ExpirySeconds: &expiry},
			elapsed:  59*time.Second + 999*time.Millisecond,
			expected: StateAlive,
		},
		{
			name:     "ExpiredAtDeadline",
			secret:   Secret{CreatedAt: createdAt, ExpirySeconds: &expiry},
			elapsed:  60 * time.Second,
			expected: StateExpired,
		},
		{
			name:     "ExpiredAfterDeadline",
			secret:   Secret{CreatedAt: createdAt, ExpirySeconds: &expiry},
			elapsed:  time.Hour,
			expected: StateExpired,
		},
		{
			name:     "ConsumedBeforeDeadline",
			secret:   Secret{CreatedAt: createdAt, ExpirySeconds: &expiry, Consumed: true},
			elapsed:  time.Second,
			expected: StateConsumed,
		},
		{
			name:     "ConsumedWinsOverExpired",
			secret:   Secret{CreatedAt: createdAt, ExpirySeconds: &expiry, Consumed: true},
			elapsed:  time.Hour,
			expected: StateConsumed,
		},
		{
			name:     "ConsumedWithoutExpiry",
			secret:   Secret{CreatedAt: createdAt, Consumed: true},
			elapsed:  0,
			expected: StateConsumed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.secret.State(createdAt.Add(tt.elapsed)))
		})
	}
}

func TestEvaluateState_Missing(t *testing.T) {
	assert.Equal(t, StateInvalid, EvaluateState(nil, time.Now()))
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateAlive.Terminal())
	assert.True(t, StateInvalid.Terminal())
	assert.True(t, StateExpired.Terminal())
	assert.True(t, StateConsumed.Terminal())
}
