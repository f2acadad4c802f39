// Package http provides HTTP handlers for one-time secret links.
//
// The key is carried in the "key" query parameter of the status and consume routes
// and is never logged or echoed back.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	"github.com/allisson/secretlink/internal/httputil"
	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
	"github.com/allisson/secretlink/internal/secrets/http/dto"
	secretsService "github.com/allisson/secretlink/internal/secrets/service"
	secretsUseCase "github.com/allisson/secretlink/internal/secrets/usecase"
	customValidation "github.com/allisson/secretlink/internal/validation"
)

// SecretHandler handles HTTP requests for one-time secrets.
type SecretHandler struct {
	secretUseCase secretsUseCase.SecretUseCase
	limits        dto.Limits
	publicBaseURL string
	logger        *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	secretUseCase secretsUseCase.SecretUseCase,
	limits dto.Limits,
	publicBaseURL string,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase: secretUseCase,
		limits:        limits,
		publicBaseURL: publicBaseURL,
		logger:        logger,
	}
}

// GenerateURLHandler registers client-side encrypted data.
// POST /api/generate-url - form or JSON body.
// Returns 201 Created with the share link (without the key).
func (h *SecretHandler) GenerateURLHandler(c *gin.Context) {
	var req dto.GenerateURLRequest

	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	req.Normalize()

	if err := req.Validate(h.limits); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), req.Ciphertext, req.IV, req.Expiry)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSecretToGenerateURLResponse(secret, h.publicBaseURL))
}

// StateHandler reports whether a secret can still be opened.
// GET /goto/:id?key=... - A malformed key reports "invalid" without a lookup.
func (h *SecretHandler) StateHandler(c *gin.Context) {
	secretID, ok := h.parseID(c)
	if !ok {
		return
	}

	state := secretsDomain.StateInvalid
	if key, err := secretsService.DecodeKey(c.Query("key")); err == nil {
		cryptoDomain.Zero(key)

		state, err = h.secretUseCase.State(c.Request.Context(), secretID)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.StateResponse{ID: secretID.String(), State: state.String()})
}

// ConsumeHandler discloses and burns a secret.
// GET /consume/:id?key=... - Returns 200 OK with the plaintext exactly once.
func (h *SecretHandler) ConsumeHandler(c *gin.Context) {
	secretID, ok := h.parseID(c)
	if !ok {
		return
	}

	plaintext, err := h.secretUseCase.Consume(c.Request.Context(), secretID, c.Query("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.ConsumeResponse{ID: secretID.String(), Secret: plaintext})
}

func (h *SecretHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid secret id"), h.logger)
		return uuid.Nil, false
	}
	return secretID, true
}
