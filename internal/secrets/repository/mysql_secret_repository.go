package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/secretlink/internal/database"
	apperrors "github.com/allisson/secretlink/internal/errors"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLSecretRepository implements Secret persistence for MySQL databases.
// IDs are stored as BINARY(16).
type MySQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret into the MySQL database.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secrets (id, ciphertext, iv, expiry_seconds, consumed, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		secret.Ciphertext,
		secret.IV,
		expiryToNull(secret.ExpirySeconds),
		secret.Consumed,
		secret.CreatedAt,
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return secretsDomain.ErrSecretIDCollision
		}
		return apperrors.Storage(err, "failed to create secret")
	}

	return nil
}

// GetState reads the columns needed to classify a secret without taking a lock.
func (m *MySQLSecretRepository) GetState(
	ctx context.Context,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, expiry_seconds, consumed, created_at
			  FROM secrets
			  WHERE id = ?`

	id, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	var secret secretsDomain.Secret
	var rawID []byte
	var expiry sql.NullInt64
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if err := secret.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	secret.ExpirySeconds = nullToExpiry(expiry)

	return &secret, nil
}

// GetForUpdate loads an unconsumed secret under an exclusive row lock.
func (m *MySQLSecretRepository) GetForUpdate(
	ctx context.Context,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, ciphertext, iv, expiry_seconds, consumed, created_at
			  FROM secrets
			  WHERE id = ? AND consumed = false
			  FOR UPDATE`

	id, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	var secret secretsDomain.Secret
	var rawID []byte
	var expiry sql.NullInt64
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
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

	if err := secret.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	secret.ExpirySeconds = nullToExpiry(expiry)

	return &secret, nil
}

// MarkConsumed flips the consumed flag under the lock taken by GetForUpdate.
func (m *MySQLSecretRepository) MarkConsumed(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets
			  SET consumed = true
			  WHERE id = ? AND consumed = false`

	id, err := secretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Storage(err, "failed to mark secret consumed")
	}

	return requireOneRow(result)
}

// CountDead returns how many secrets DeleteDead would remove for the same cutoff.
func (m *MySQLSecretRepository) CountDead(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*)
			  FROM secrets
			  WHERE (consumed = true AND created_at < ?)
			     OR (expiry_seconds IS NOT NULL
			         AND DATE_ADD(created_at, INTERVAL expiry_seconds SECOND) <= ?)`

	var count int64
	if err := querier.QueryRowContext(ctx, query, before, before).Scan(&count); err != nil {
		return 0, apperrors.Storage(err, "failed to count dead secrets")
	}

	return count, nil
}

// DeleteDead hard-deletes consumed and expired secrets, see the PostgreSQL variant.
func (m *MySQLSecretRepository) DeleteDead(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets
			  WHERE (consumed = true AND created_at < ?)
			     OR (expiry_seconds IS NOT NULL
			         AND DATE_ADD(created_at, INTERVAL expiry_seconds SECOND) <= ?)`

	result, err := querier.ExecContext(ctx, query, before, before)
	if err != nil {
		return 0, apperrors.Storage(err, "failed to delete dead secrets")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Storage(err, "failed to read deleted rows")
	}

	return count, nil
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}
