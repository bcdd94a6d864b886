package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/badralotaibi/CS604-SHU/internal/adapter/http/dto"
	"github.com/badralotaibi/CS604-SHU/internal/domain"
	"github.com/badralotaibi/CS604-SHU/internal/infrastructure/metrics"
)

// Authenticator verifies credentials against the auth service.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
}

// TokenIssuer mints API tokens for authenticated identities.
type TokenIssuer interface {
	Generate(identity *domain.Identity) (string, error)
}

// AuthHandler handles login requests.
type AuthHandler struct {
	gateway Authenticator
	issuer  TokenIssuer
	m       *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gateway Authenticator, issuer TokenIssuer, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{gateway: gateway, issuer: issuer, m: m}
}

// Login verifies credentials upstream and issues an API token carrying the
// caller's roles and the upstream token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required", "")
		return
	}

	identity, err := h.gateway.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.m.AuthAttempts.WithLabelValues("rejected").Inc()
		writeDomainError(w, err)
		return
	}

	token, err := h.issuer.Generate(identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	h.m.AuthAttempts.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}
