package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/orgtree/pkg/adapters/redis"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	session := domain.NewSession("session-ttl", domain.Chart{ID: 1, Subordinates: []domain.Chart{{ID: 2}}})

	require.NoError(t, store.Save(ctx, session))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Key expiration is driven by miniredis' clock.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Index pruning is driven by the wall clock.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, domain.NewSession("my-session", domain.Chart{ID: 1}))
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:_index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-session"}, list)
}

func TestRedisStore_SessionNamedIndex(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("acme", domain.Chart{ID: 1})))
	require.NoError(t, store.Save(ctx, domain.NewSession("index", domain.Chart{ID: 7})))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme", "index"}, list)
	assert.True(t, mr.Exists("orgtree:session:index"))

	loaded, err := store.Load(ctx, "index")
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Chart.ID)
}

func TestRedisStore_RejectsInvalidID(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)

	err := store.Save(context.Background(), domain.NewSession("bad id", domain.Chart{ID: 1}))
	assert.ErrorIs(t, err, domain.ErrInvalidSessionID)
}

func TestRedisStore_New(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.New(mr.Addr(), "", 0)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.NewSession("s", domain.Chart{ID: 1})))
	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Chart.ID)
	assert.NotNil(t, store.Client())
}
