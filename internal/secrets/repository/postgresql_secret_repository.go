// Package repository implements data persistence for one-time secrets.
// Repositories support both PostgreSQL and MySQL and run on the transaction carried
// in the context when one is present.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/secretlink/internal/database"
	apperrors "github.com/allisson/secretlink/internal/errors"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the PostgreSQL database.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, ciphertext, iv, expiry_seconds, consumed, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.Ciphertext,
		secret.IV,
		expiryToNull(secret.ExpirySeconds),
		secret.Consumed,
		secret.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return secretsDomain.ErrSecretIDCollision
		}
		return apperrors.Storage(err, "failed to create secret")
	}
	return nil
}

// GetState reads the columns needed to classify a secret without taking a lock.
// Ciphertext and IV are not loaded.
func (p *PostgreSQLSecretRepository) GetState(
	ctx context.Context,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, expiry_seconds, consumed, created_at
			  FROM secrets
			  WHERE id = $1`

	var secret secretsDomain.Secret
	var expiry sql.NullInt64
	err := querier.QueryRowContext(ctx, query, secretID).Scan(
		&secret.ID,
		&expiry,
		&secret.Consumed,
		&secret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Storage(err, "failed to get secret state")
	}
	secret.ExpirySeconds = nullToExpiry(expiry)

	return &secret, nil
}

// GetForUpdate loads an unconsumed secret and locks its row until the surrounding
// transaction ends. Consumed and missing rows are filtered by the locking query
// itself and both yield ErrSecretNotFound.
func (p *PostgreSQLSecretRepository) GetForUpdate(
	ctx context.Context,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, ciphertext, iv, expiry_seconds, consumed, created_at
			  FROM secrets
			  WHERE id = $1 AND consumed = false
			  FOR UPDATE`

	var secret secretsDomain.Secret
	var expiry sql.NullInt64
	err := querier.QueryRowContext(ctx, query, secretID).Scan(
		&secret.ID,
		&secret.Ciphertext,
		&secret.IV,
		&expiry,
		&secret.Consumed,
		&secret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Storage(err, "failed to lock secret")
	}
	secret.ExpirySeconds = nullToExpiry(expiry)

	return &secret, nil
}

// MarkConsumed flips the consumed flag. Must run in the transaction that holds
// the lock taken by GetForUpdate.
func (p *PostgreSQLSecretRepository) MarkConsumed(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets
			  SET consumed = true
			  WHERE id = $1 AND consumed = false`

	result, err := querier.ExecContext(ctx, query, secretID)
	if err != nil {
		return apperrors.Storage(err, "failed to mark secret consumed")
	}

	return requireOneRow(result)
}

// CountDead returns how many secrets DeleteDead would remove for the same cutoff.
func (p *PostgreSQLSecretRepository) CountDead(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*)
			  FROM secrets
			  WHERE (consumed = true AND created_at < $1)
			     OR (expiry_seconds IS NOT NULL
			         AND created_at + expiry_seconds * INTERVAL '1 second' <= $1)`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before).Scan(&count); err != nil {
		return 0, apperrors.Storage(err, "failed to count dead secrets")
	}

	return count, nil
}

// DeleteDead hard-deletes secrets that were consumed before the cutoff or whose
// expiry deadline is at or before it. Alive secrets are never touched.
func (p *PostgreSQLSecretRepository) DeleteDead(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets
			  WHERE (consumed = true AND created_at < $1)
			     OR (expiry_seconds IS NOT NULL
			         AND created_at + expiry_seconds * INTERVAL '1 second' <= $1)`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Storage(err, "failed to delete dead secrets")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Storage(err, "failed to read deleted rows")
	}

	return count, nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}
