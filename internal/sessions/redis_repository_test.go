package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*mr.Miniredis, *redis.Client) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, redis.NewClient(&redis.Options{Addr: m.Addr()})
}

func TestRedisRepository_CreateGetDelete(t *testing.T) {
	m, client := newTestRedis(t)
	repo := NewRedisRepository(client, "")
	ctx := context.Background()

	s := &Session{RefreshToken: "tok-1", UserID: 42, ExpiresAt: time.Now().UTC().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))

	// keys are namespaced under the docuvault prefix
	require.True(t, m.Exists("docuvault:session:tok-1"))

	got, err := repo.GetByRefresh(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(42), got.UserID)

	require.NoError(t, repo.DeleteByRefresh(ctx, "tok-1"))
	got, err = repo.GetByRefresh(ctx, "tok-1")
	require.NoError(t, err)
	require.Nil(t, got)
	require.False(t, m.Exists("docuvault:session:tok-1"))
}

func TestRedisRepository_MissingToken(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisRepository(client, "")

	got, err := repo.GetByRefresh(context.Background(), "does-not-exist")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestRedisRepository_ExpiredTreatedAsMissing(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisRepository(client, "")
	ctx := context.Background()

	s := &Session{RefreshToken: "tok-exp", UserID: 7, ExpiresAt: time.Now().UTC().Add(-time.Minute)}
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByRefresh(ctx, "tok-exp")
	require.NoError(t, err)
	require.Nil(t, got)
}
