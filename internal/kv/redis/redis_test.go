package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	st := NewWithClient(goredis.NewClient(&goredis.Options{Addr: srv.Addr()}))
	t.Cleanup(func() { _ = st.Close() })
	return st, srv
}

func TestSlotLifecycle(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "weddingMessages_after")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "weddingMessages_after", "[]"))

	v, ok, err := st.Get(ctx, "weddingMessages_after")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, st.Remove(ctx, "weddingMessages_after"))
	require.NoError(t, st.Remove(ctx, "weddingMessages_after"))

	_, ok, err = st.Get(ctx, "weddingMessages_after")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOOMMapsToQuota(t *testing.T) {
	st, srv := newTestStore(t)
	// Open the pooled connection before the server starts failing commands.
	require.NoError(t, st.client.Ping(context.Background()).Err())

	srv.SetError("OOM command not allowed when used memory > 'maxmemory'.")
	err := st.Set(context.Background(), "weddingMessages_boda", "[]")
	assert.ErrorIs(t, err, kv.ErrQuotaExceeded)

	srv.SetError("")
	assert.NoError(t, st.Set(context.Background(), "weddingMessages_boda", "[]"))
}
