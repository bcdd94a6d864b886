package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/badralotaibi/CS604-SHU/internal/domain"
)

// Claims carries the ledger identity inside a JWT. UpstreamToken is the auth
// service token captured at login; parent/child checks forward it so the auth
// service can verify relationships without a second login.
type Claims struct {
	Email         string `json:"email"`
	IsParent      bool   `json:"isParent"`
	IsStudent     bool   `json:"isStudent"`
	UpstreamToken string `json:"upstreamToken"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token creation and validation.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate issues a token for an authenticated identity.
func (m *JWTManager) Generate(identity *domain.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:         identity.Email,
		IsParent:      identity.IsParent,
		IsStudent:     identity.IsStudent,
		UpstreamToken: identity.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify validates a token and returns the identity it carries.
func (m *JWTManager) Verify(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	return &domain.Identity{
		Email:     claims.Email,
		IsParent:  claims.IsParent,
		IsStudent: claims.IsStudent,
		Token:     claims.UpstreamToken,
	}, nil
}
