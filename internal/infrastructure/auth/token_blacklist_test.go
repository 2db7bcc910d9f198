package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-expire", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-expire")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-dead", 0))

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-dead")
	require.NoError(t, err)
	assert.False(t, revoked)
}
