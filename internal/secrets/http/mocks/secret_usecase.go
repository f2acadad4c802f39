// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// Create mocks the Create method of SecretUseCase.
func (m *MockSecretUseCase) Create(
	ctx context.Context,
	ciphertext, iv string,
	expirySeconds uint32,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, ciphertext, iv, expirySeconds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// State mocks the State method of SecretUseCase.
func (m *MockSecretUseCase) State(ctx context.Context, secretID uuid.UUID) (secretsDomain.State, error) {
	args := m.Called(ctx, secretID)
	return args.Get(0).(secretsDomain.State), args.Error(1)
}

// Consume mocks the Consume method of SecretUseCase.
func (m *MockSecretUseCase) Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error) {
	args := m.Called(ctx, secretID, encodedKey)
	return args.String(0), args.Error(1)
}

// Purge mocks the Purge method of SecretUseCase.
func (m *MockSecretUseCase) Purge(ctx context.Context, olderThan time.Duration, dryRun bool) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
