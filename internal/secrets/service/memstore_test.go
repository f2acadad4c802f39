package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// memTx records the row locks and writes of one in-memory transaction.
type memTx struct {
	held    []*sync.Mutex
	pending []func()
}

type memTxKey struct{}

// memTxManager mimics database.TxManager: writes are applied on commit and every
// row lock is released when the transaction ends, whatever the outcome.
type memTxManager struct {
	commitErr error
}

func (m *memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{}
	defer func() {
		for _, lock := range tx.held {
			lock.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, memTxKey{}, tx)); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	for _, apply := range tx.pending {
		apply()
	}
	return nil
}

// memStore is an in-memory SecretLocker with per-row locks.
type memStore struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*secretsDomain.Secret
	locks map[uuid.UUID]*sync.Mutex
	marks int
}

func newMemStore(secrets ...*secretsDomain.Secret) *memStore {
	s := &memStore{
		rows:  make(map[uuid.UUID]*secretsDomain.Secret),
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
	for _, secret := range secrets {
		row := *secret
		s.rows[secret.ID] = &row
		s.locks[secret.ID] = &sync.Mutex{}
	}
	return s
}

func (s *memStore) GetForUpdate(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	tx := ctx.Value(memTxKey{}).(*memTx)

	s.mu.Lock()
	lock, ok := s.locks[secretID]
	s.mu.Unlock()
	if !ok {
		return nil, secretsDomain.ErrSecretNotFound
	}

	lock.Lock()
	tx.held = append(tx.held, lock)

	s.mu.Lock()
	defer s.mu.Unlock()
	row := *s.rows[secretID]
	if row.Consumed {
		return nil, secretsDomain.ErrSecretNotFound
	}
	return &row, nil
}

func (s *memStore) MarkConsumed(ctx context.Context, secretID uuid.UUID) error {
	tx := ctx.Value(memTxKey{}).(*memTx)
	tx.pending = append(tx.pending, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows[secretID].Consumed = true
		s.marks++
	})
	return nil
}

func (s *memStore) consumed(secretID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[secretID].Consumed
}

func (s *memStore) markCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks
}
