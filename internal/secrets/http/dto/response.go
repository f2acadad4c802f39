package dto

import (
	"strings"
	"time"

	secretsDomain "github.com/allisson/secretlink/internal/secrets/domain"
)

// GenerateURLResponse is returned after a secret is registered. The client appends
// "?key=<key>" to URL; the key itself never reaches the server at this point.
type GenerateURLResponse struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// MapSecretToGenerateURLResponse builds the share link for secret under baseURL.
// An empty baseURL yields a relative link.
func MapSecretToGenerateURLResponse(secret *secretsDomain.Secret, baseURL string) GenerateURLResponse {
	response := GenerateURLResponse{
		ID:  secret.ID.String(),
		URL: strings.TrimSuffix(baseURL, "/") + "/goto/" + secret.ID.String(),
	}
	if expiresAt, ok := secret.ExpiresAt(); ok {
		response.ExpiresAt = &expiresAt
	}
	return response
}

// StateResponse reports the lifecycle state of a secret.
type StateResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// ConsumeResponse carries the disclosed plaintext.
// SECURITY: only ever served once and marked non-cacheable by the handler.
type ConsumeResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}
