package authgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// Client talks to the external auth service. The ledger never stores
// credentials itself; it forwards them (or a previously issued token) and
// trusts the auth service's verdicts. Transport failures surface as
// domain.ErrUpstreamUnavailable so handlers can answer 502 instead of 403.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a new auth service client.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type authResponse struct {
	Email     string `json:"email"`
	Token     string `json:"token"`
	IsParent  bool   `json:"isParent"`
	IsStudent bool   `json:"isStudent"`
}

type checkParentRequest struct {
	ChildEmail string `json:"child_email"`
}

type checkParentResponse struct {
	IsParent bool `json:"isParent"`
}

// Authenticate verifies a username/password pair against the auth service and
// returns the caller's identity, including the auth service token used for
// later parent checks.
func (c *Client) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("auth service unreachable")
		return nil, domain.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrInvalidToken
	}

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if body.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{
		Email:     body.Email,
		IsParent:  body.IsParent,
		IsStudent: body.IsStudent,
		Token:     body.Token,
	}, nil
}

// CheckParentFor asks the auth service whether the token's owner is a parent
// of the given child. A clean "no" comes back as (false, nil); only transport
// failures produce an error.
func (c *Client) CheckParentFor(ctx context.Context, token, childEmail string) (bool, error) {
	payload, err := json.Marshal(checkParentRequest{ChildEmail: childEmail})
	if err != nil {
		return false, fmt.Errorf("marshal check-parent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check-parent-for", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build check-parent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(token, "x")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("auth service unreachable")
		return false, domain.ErrUpstreamUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var body checkParentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, nil
	}

	return body.IsParent, nil
}
