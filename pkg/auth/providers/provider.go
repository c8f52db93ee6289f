package providers

import "context"

type AuthProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error)
}

// TokenIssuer is implemented by providers that mint their own tokens at login.
type TokenIssuer interface {
	IssueToken(username string) (string, error)
}

type TokenClaims struct {
	UID string `json:"uid"`
	// Username is the verified display name. Empty when the provider does not assert one.
	Username string `json:"username"`
}
