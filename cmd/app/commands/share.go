package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	cryptoService "github.com/allisson/secretlink/internal/crypto/service"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
	"github.com/allisson/secretlink/internal/secrets/http/dto"
	secretsService "github.com/allisson/secretlink/internal/secrets/service"
)

// maxShareInput bounds how much plaintext share reads from its input.
const maxShareInput = 48 * 1024

// SecretCreator registers sealed secrets.
type SecretCreator interface {
	Create(ctx context.Context, ciphertext, iv string, expirySeconds uint32) (*secretsDomain.Secret, error)
}

// SecretConsumer discloses secrets.
type SecretConsumer interface {
	Consume(ctx context.Context, secretID uuid.UUID, encodedKey string) (string, error)
}

// RunShare reads a secret from io.Reader, seals it under a fresh key and prints the
// one-time link. The key is only ever part of the printed link.
func RunShare(
	ctx context.Context,
	creator SecretCreator,
	aeadManager cryptoService.AEADManager,
	alg cryptoDomain.Algorithm,
	logger *slog.Logger,
	io IOTuple,
	baseURL string,
	expirySeconds uint32,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plaintext, err := readSharedInput(io.Reader)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	sealed, err := secretsService.Seal(aeadManager, alg, plaintext)
	if err != nil {
		return fmt.Errorf("failed to seal secret: %w", err)
	}

	secret, err := creator.Create(ctx, sealed.Ciphertext, sealed.IV, expirySeconds)
	if err != nil {
		return fmt.Errorf("failed to register secret: %w", err)
	}

	response := dto.MapSecretToGenerateURLResponse(secret, baseURL)
	link := response.URL + "?key=" + sealed.Key

	logger.Info("secret shared", slog.String("secret_id", response.ID))

	if format == "json" {
		return writeJSON(io.Writer, map[string]interface{}{
			"id":         response.ID,
			"url":        link,
			"expires_at": response.ExpiresAt,
		})
	}

	fmt.Fprintln(io.Writer, link)
	if response.ExpiresAt != nil {
		fmt.Fprintf(io.Writer, "Expires at: %s\n", response.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

// RunOpen consumes the secret behind a share link and prints it.
func RunOpen(
	ctx context.Context,
	consumer SecretConsumer,
	logger *slog.Logger,
	io IOTuple,
	link string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	secretID, key, err := parseShareLink(link)
	if err != nil {
		return err
	}

	plaintext, err := consumer.Consume(ctx, secretID, key)
	if err != nil {
		return fmt.Errorf("failed to open secret: %w", err)
	}

	logger.Info("secret opened", slog.String("secret_id", secretID.String()))

	if format == "json" {
		return writeJSON(io.Writer, dto.ConsumeResponse{ID: secretID.String(), Secret: plaintext})
	}

	_, err = fmt.Fprintln(io.Writer, plaintext)
	return err
}

func readSharedInput(r io.Reader) ([]byte, error) {
	plaintext, err := io.ReadAll(io.LimitReader(r, maxShareInput+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}
	if len(plaintext) > maxShareInput {
		cryptoDomain.Zero(plaintext)
		return nil, fmt.Errorf("secret exceeds %d bytes", maxShareInput)
	}

	plaintext = bytes.TrimSuffix(plaintext, []byte("\n"))
	plaintext = bytes.TrimSuffix(plaintext, []byte("\r"))
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}
	return plaintext, nil
}

// parseShareLink extracts the id and key from ".../goto/<id>?key=<key>". The
// consume path is accepted too.
func parseShareLink(link string) (uuid.UUID, string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid link: %w", err)
	}

	dir, last := path.Split(u.Path)
	if parent := path.Base(path.Clean(dir)); parent != "goto" && parent != "consume" {
		return uuid.Nil, "", fmt.Errorf("invalid link: unexpected path %q", u.Path)
	}

	secretID, err := uuid.Parse(last)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid link: %w", err)
	}

	key := u.Query().Get("key")
	if key == "" {
		return uuid.Nil, "", fmt.Errorf("invalid link: missing key")
	}

	return secretID, key, nil
}
