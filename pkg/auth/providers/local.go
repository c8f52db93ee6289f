package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ AuthProvider = &LocalAuthProvider{}
var _ TokenIssuer = &LocalAuthProvider{}

// LocalAuthProvider issues opaque session tokens after a password login
// and verifies them until they expire.
type LocalAuthProvider struct {
	mu     sync.Mutex
	tokens map[string]localToken
	ttl    time.Duration
	now    func() time.Time
}

type localToken struct {
	username  string
	expiresAt time.Time
}

func NewLocalAuthProvider(ttl time.Duration) *LocalAuthProvider {
	return &LocalAuthProvider{
		tokens: make(map[string]localToken),
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken returns a new token for username.
func (p *LocalAuthProvider) IssueToken(username string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("username is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.pruneLocked()

	token := uuid.NewString()
	p.tokens[token] = localToken{
		username:  username,
		expiresAt: p.now().Add(p.ttl),
	}
	return token, nil
}

// VerifyToken verifies a token issued by this provider
func (p *LocalAuthProvider) VerifyToken(ctx context.Context, idToken string) (*TokenClaims, error) {
	if idToken == "" {
		return nil, fmt.Errorf("token is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.tokens[idToken]
	if !ok {
		return nil, fmt.Errorf("unknown token")
	}
	if !p.now().Before(t.expiresAt) {
		delete(p.tokens, idToken)
		return nil, fmt.Errorf("token expired")
	}

	return &TokenClaims{
		UID:      t.username,
		Username: t.username,
	}, nil
}

// RevokeToken invalidates a token.
func (p *LocalAuthProvider) RevokeToken(idToken string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.tokens, idToken)
}

func (p *LocalAuthProvider) pruneLocked() {
	now := p.now()
	for token, t := range p.tokens {
		if !now.Before(t.expiresAt) {
			delete(p.tokens, token)
		}
	}
}
