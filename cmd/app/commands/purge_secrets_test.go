package commands

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsHTTPMocks "github.com/allisson/secretlink/internal/secrets/http/mocks"
)

func TestRunPurgeSecrets(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &secretsHTTPMocks.MockSecretUseCase{}
		mockUseCase.On("Purge", ctx, 24*time.Hour, false).Return(int64(100), nil)

		var out bytes.Buffer
		err := RunPurgeSecrets(ctx, mockUseCase, logger, IOTuple{Writer: &out}, 24, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 100 secret(s) older than 24 hour(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-dry-run", func(t *testing.T) {
		mockUseCase := &secretsHTTPMocks.MockSecretUseCase{}
		mockUseCase.On("Purge", ctx, 48*time.Hour, true).Return(int64(50), nil)

		var out bytes.Buffer
		err := RunPurgeSecrets(ctx, mockUseCase, logger, IOTuple{Writer: &out}, 48, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 50`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &secretsHTTPMocks.MockSecretUseCase{}
		mockUseCase.On("Purge", ctx, time.Duration(0), false).Return(int64(0), assert.AnError)

		err := RunPurgeSecrets(ctx, mockUseCase, logger, IOTuple{Writer: &bytes.Buffer{}}, 0, false, "text")

		require.ErrorIs(t, err, assert.AnError)
	})

	t.Run("invalid-hours", func(t *testing.T) {
		err := RunPurgeSecrets(ctx, &secretsHTTPMocks.MockSecretUseCase{}, logger, IOTuple{}, -1, false, "text")

		require.ErrorContains(t, err, "hours must be a positive number")
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunPurgeSecrets(ctx, &secretsHTTPMocks.MockSecretUseCase{}, logger, IOTuple{}, 1, false, "yaml")

		require.ErrorContains(t, err, "invalid format")
	})
}
