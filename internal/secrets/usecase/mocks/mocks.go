// Package mocks provides mock implementations for testing secret use cases.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// GetState mocks the GetState method of SecretRepository.
func (m *MockSecretRepository) GetState(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// CountDead mocks the CountDead method of SecretRepository.
func (m *MockSecretRepository) CountDead(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteDead mocks the DeleteDead method of SecretRepository.
func (m *MockSecretRepository) DeleteDead(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockDiscloser is a mock implementation of Discloser.
type MockDiscloser struct {
	mock.Mock
}

// Consume mocks the Consume method of Discloser.
func (m *MockDiscloser) Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error) {
	args := m.Called(ctx, secretID, encodedKey)
	return args.String(0), args.Error(1)
}

// MockTxManager is a mock implementation of database.TxManager. The callback is
// invoked with the caller's context unless the expectation returns an error.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
