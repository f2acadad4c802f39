package repository

import (
	"database/sql"

	apperrors "github.com/allisson/secretlink/internal/errors"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

func expiryToNull(expiry *uint32) sql.NullInt64 {
	if expiry == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*expiry), Valid: true}
}

func nullToExpiry(n sql.NullInt64) *uint32 {
	if !n.Valid {
		return nil
	}
	v := uint32(n.Int64)
	return &v
}

// requireOneRow turns a zero-row update into ErrSecretNotFound.
func requireOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage(err, "failed to read affected rows")
	}
	if affected != 1 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}
