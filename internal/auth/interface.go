package auth

import "time"

// TokenVerifier defines the interface for workspace token verification.
// The middleware stays agnostic to how tokens are signed.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the workspace id it was issued for.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or forged.
	VerifyToken(tokenString string) (string, error)
}

// TokenIssuer signs tokens for new workspaces
type TokenIssuer interface {
	// IssueToken returns a signed token for workspaceID and its expiry
	IssueToken(workspaceID string) (string, time.Time, error)
}

// Tokens both issues and verifies workspace tokens
type Tokens interface {
	TokenIssuer
	TokenVerifier
}
