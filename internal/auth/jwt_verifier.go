package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidhik/internal/domain"
)

const issuer = "vidhik"

// WorkspaceClaims are the claims carried by a workspace token; Subject is the workspace id.
type WorkspaceClaims struct {
	jwt.RegisteredClaims
}

// HMACTokens issues and verifies HS256 workspace tokens.
type HMACTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewHMACTokens creates an HS256 issuer/verifier. ttl is the token lifetime.
func NewHMACTokens(secret string, ttl time.Duration, logger *slog.Logger) (*HMACTokens, error) {
	if len(secret) < 32 {
		return nil, errors.New("workspace secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &HMACTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}, nil
}

// IssueToken signs a token whose subject is workspaceID
func (t *HMACTokens) IssueToken(workspaceID string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, WorkspaceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   workspaceID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign workspace token: %w", err)
	}
	return signed, expires, nil
}

// VerifyToken validates a token and returns its workspace id.
func (t *HMACTokens) VerifyToken(tokenString string) (string, error) {
	claims := &WorkspaceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		// Prevent algorithm confusion attacks - allow only HS256
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		t.logger.Debug("workspace token rejected", "error", err.Error())
		return "", &domain.UnauthorizedError{Message: "invalid or expired workspace token"}
	}
	if !token.Valid || claims.Subject == "" {
		return "", &domain.UnauthorizedError{Message: "invalid workspace token"}
	}

	return claims.Subject, nil
}
