package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunProgramStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Keys(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("lib:"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "compare", []byte("src")))

	val, err := mr.Get("lib:program:compare")
	require.NoError(t, err)
	assert.Equal(t, "src", val)

	members, err := mr.ZMembers("lib:programs")
	require.NoError(t, err)
	assert.Equal(t, []string{"compare"}, members)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short-lived", []byte("src")))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "short-lived")

	// Key expiration is driven by miniredis, index pruning by the store clock.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrProgramNotFound)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, store.Ping(ctx))
	_, err := store.Load(ctx, "compare")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrProgramNotFound)
}
