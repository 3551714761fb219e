package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceStore_FirstUseIsValid(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "account-1", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "first use of a nonce should be valid")
}

func TestNonceStore_ReplayRejected(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "account-1", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.CheckAndSet(ctx, "account-1", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "replayed nonce should be rejected")
}

func TestNonceStore_ScopedPerAccount(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "account-1", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// Same nonce, different account
	ok, err = store.CheckAndSet(ctx, "account-2", "nonce-abc", 5*time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "nonces are scoped per account")
}

func TestNonceStore_ExpiredNonceReusable(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewNonceStore(client)
	ctx := context.Background()

	ok, err := store.CheckAndSet(ctx, "account-1", "nonce-abc", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = store.CheckAndSet(ctx, "account-1", "nonce-abc", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "nonce becomes reusable after TTL expiry")
}
