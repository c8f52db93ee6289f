package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAuthProvider(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := NewLocalAuthProvider(time.Hour)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	token, err := p.IssueToken("alice")
	require.NoError(t, err)

	claims, err := p.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	_, err = p.VerifyToken(ctx, "")
	assert.Error(t, err)
	_, err = p.VerifyToken(ctx, "bogus")
	assert.Error(t, err)
	_, err = p.IssueToken("")
	assert.Error(t, err)

	now = now.Add(time.Hour)
	_, err = p.VerifyToken(ctx, token)
	assert.Error(t, err, "expired tokens are rejected")
}

func TestLocalAuthProviderRevoke(t *testing.T) {
	p := NewLocalAuthProvider(time.Hour)
	token, err := p.IssueToken("bob")
	require.NoError(t, err)

	p.RevokeToken(token)
	_, err = p.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}

func TestNoAuthProvider(t *testing.T) {
	claims, err := NewNoAuthProvider().VerifyToken(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, claims.Username)
}

func TestUsernameFromClaims(t *testing.T) {
	assert.Equal(t, "Alice", usernameFromClaims("uid-1", map[string]interface{}{"name": "Alice"}))
	assert.Equal(t, "uid-1", usernameFromClaims("uid-1", map[string]interface{}{}))
	assert.Equal(t, "uid-1", usernameFromClaims("uid-1", nil))
}
