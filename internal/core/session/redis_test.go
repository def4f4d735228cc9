package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
)

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestRedisStore_SaveFind(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &domain.Session{Token: "t1", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := s.Find(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.EqualValues(t, 7, got.UserID)
	assert.Equal(t, "t1", got.Token)

	got, err = s.Find(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &domain.Session{Token: "t1", UserID: 7, ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	got, err := s.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_SaveExpired(t *testing.T) {
	s, _ := newStore(t)
	err := s.Save(context.Background(), &domain.Session{Token: "t1", UserID: 7, ExpiresAt: time.Now().Add(-time.Second)})
	assert.Error(t, err)
}

func TestRedisStore_DeleteAndDeleteByUser(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	for _, tok := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, &domain.Session{Token: tok, UserID: 1, ExpiresAt: exp}))
	}
	require.NoError(t, s.Save(ctx, &domain.Session{Token: "other", UserID: 2, ExpiresAt: exp}))

	require.NoError(t, s.Delete(ctx, "a"))
	got, err := s.Find(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)
	members, err := mr.Members(userKey(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, members)

	require.NoError(t, s.DeleteByUser(ctx, 1))
	for _, tok := range []string{"b", "c"} {
		got, err := s.Find(ctx, tok)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	got, err = s.Find(ctx, "other")
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, s.Delete(ctx, "never-existed"))
}
