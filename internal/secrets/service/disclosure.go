// Package service implements one-time disclosure of stored secrets.
//
// The key arrives with the request and is only held in memory for the duration of
// a single Consume call. The record is decrypted under a row lock and flagged as
// consumed in the same transaction, so at most one caller ever sees the plaintext.
package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	cryptoService "github.com/allisson/secretlink/internal/crypto/service"
	"github.com/allisson/secretlink/internal/database"
	apperrors "github.com/allisson/secretlink/internal/errors"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// SecretLocker is the subset of the secret repository used while disclosing.
type SecretLocker interface {
	GetForUpdate(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	MarkConsumed(ctx context.Context, secretID uuid.UUID) error
}

// DisclosureService decrypts a secret exactly once.
type DisclosureService struct {
	txManager   database.TxManager
	store       SecretLocker
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
	now         func() time.Time
}

// NewDisclosureService creates a DisclosureService that opens secrets with alg.
func NewDisclosureService(
	txManager database.TxManager,
	store SecretLocker,
	aeadManager cryptoService.AEADManager,
	alg cryptoDomain.Algorithm,
) *DisclosureService {
	return &DisclosureService{
		txManager:   txManager,
		store:       store,
		aeadManager: aeadManager,
		algorithm:   alg,
		now:         time.Now,
	}
}

// Consume decrypts the secret identified by secretID with encodedKey and marks it consumed.
//
// Nothing is returned unless the consumed flag was committed. Decryption failures
// roll back and leave the record readable for the correct key.
func (d *DisclosureService) Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error) {
	key, err := DecodeKey(encodedKey)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(key)

	var plaintext []byte
	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		secret, err := d.store.GetForUpdate(ctx, secretID)
		if err != nil {
			return err
		}

		if secret.Expired(d.now()) {
			return secretsDomain.ErrSecretGone
		}

		nonce, ciphertext, err := decodeSealed(secret)
		if err != nil {
			return err
		}

		aead, err := d.aeadManager.CreateCipher(key, d.algorithm)
		if err != nil {
			return apperrors.Wrap(err, "failed to create cipher")
		}

		plaintext, err = aead.Decrypt(ciphertext, nonce, nil)
		if err != nil {
			return secretsDomain.ErrDecryptionFailed
		}

		return d.store.MarkConsumed(ctx, secretID)
	})
	defer cryptoDomain.Zero(plaintext)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(plaintext), "\uFFFD"), nil
}

// DecodeKey decodes a URL-safe unpadded base64 key and checks its length.
func DecodeKey(encodedKey string) ([]byte, error) {
	key, err := base64.RawURLEncoding.DecodeString(encodedKey)
	if err != nil || len(key) != cryptoDomain.KeySize {
		cryptoDomain.Zero(key)
		return nil, secretsDomain.ErrInvalidKey
	}
	return key, nil
}

func decodeSealed(secret *secretsDomain.Secret) (nonce, ciphertext []byte, err error) {
	nonce, err = base64.RawURLEncoding.DecodeString(secret.IV)
	if err != nil || len(nonce) != cryptoDomain.NonceSize {
		return nil, nil, apperrors.Wrap(secretsDomain.ErrCorruptRecord, "malformed iv")
	}

	ciphertext, err = base64.RawURLEncoding.DecodeString(secret.Ciphertext)
	if err != nil || len(ciphertext) == 0 {
		return nil, nil, apperrors.Wrap(secretsDomain.ErrCorruptRecord, "malformed ciphertext")
	}

	return nonce, ciphertext, nil
}
