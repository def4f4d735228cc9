package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
	"warbler/internal/repo"
	"warbler/internal/testutil"
)

func newStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(testutil.NewDB(t))
}

func mkUser(t *testing.T, s *repo.Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@e.com", PasswordHash: "x",
		ImageURL: domain.DefaultImageURL, HeaderImageURL: domain.DefaultHeaderImageURL}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func mkMessage(t *testing.T, s *repo.Store, u *domain.User, text string, at time.Time) *domain.Message {
	t.Helper()
	m := &domain.Message{UserID: u.ID, Text: text, CreatedAt: at}
	require.NoError(t, s.Messages.Create(context.Background(), m))
	return m
}

func TestUserRepo_UniqueFields(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	mkUser(t, s, "u1")

	err := s.Users.Create(ctx, &domain.User{Username: "u1", Email: "other@e.com", PasswordHash: "x"})
	var uv *domain.UniqueViolationError
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "username", uv.Field)

	err = s.Users.Create(ctx, &domain.User{Username: "u2", Email: "u1@e.com", PasswordHash: "x"})
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, "email", uv.Field)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserRepo_ConflictInsideTx(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	mkUser(t, s, "u1")
	u2 := mkUser(t, s, "u2")

	err := s.Tx(ctx, func(tx *repo.Store) error {
		clash := *u2
		clash.Username = "u1"
		err := tx.Users.Update(ctx, &clash)
		var uv *domain.UniqueViolationError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, "username", uv.Field)

		clash = *u2
		clash.Email = "u1@e.com"
		err = tx.Users.Update(ctx, &clash)
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, "email", uv.Field)

		// the transaction is still usable after the failed writes
		return tx.Messages.Create(ctx, &domain.Message{UserID: u2.ID, Text: "after", CreatedAt: time.Now().UTC()})
	})
	require.NoError(t, err)

	got, err := s.Users.FindByID(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.Username)
	assert.Equal(t, "u2@e.com", got.Email)
	n, err := s.Messages.CountByUser(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUserRepo_FindMissing(t *testing.T) {
	s := newStore(t)
	u, err := s.Users.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.Users.FindByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_SearchCaseSensitive(t *testing.T) {
	s := newStore(t)
	mkUser(t, s, "alice")
	mkUser(t, s, "Alicia")
	mkUser(t, s, "bob")
	mkUser(t, s, "a_b")

	all, err := s.Users.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	got, err := s.Users.Search(context.Background(), "lic")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Users.Search(context.Background(), "Ali")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alicia", got[0].Username)

	got, err = s.Users.Search(context.Background(), "_")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a_b", got[0].Username)
}

func TestUserRepo_Taken(t *testing.T) {
	s := newStore(t)
	u := mkUser(t, s, "u1")
	ctx := context.Background()

	taken, err := s.Users.Taken(ctx, "username", "u1", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Users.Taken(ctx, "username", "u1", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = s.Users.Taken(ctx, "password_hash", "x", 0)
	assert.Error(t, err)
}

func TestFollowRepo_EdgesAndDuplicates(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := mkUser(t, s, "a"), mkUser(t, s, "b")

	require.NoError(t, s.Follows.Create(ctx, a.ID, b.ID))
	assert.ErrorIs(t, s.Follows.Create(ctx, a.ID, b.ID), domain.ErrAlreadyFollowing)

	ok, err := s.Follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Follows.Exists(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	followers, err := s.Follows.Followers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, a.ID, followers[0].ID)

	following, err := s.Follows.Following(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, b.ID, following[0].ID)

	n, err := s.Follows.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Follows.Delete(ctx, a.ID, b.ID))
	require.NoError(t, s.Follows.Delete(ctx, a.ID, b.ID))
	ok, err = s.Follows.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMessageRepo_FeedOrderAndLimit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u, v, w := mkUser(t, s, "u"), mkUser(t, s, "v"), mkUser(t, s, "w")
	require.NoError(t, s.Follows.Create(ctx, u.ID, v.ID))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mu := mkMessage(t, s, u, "from u", base)
	mv := mkMessage(t, s, v, "from v", base.Add(time.Minute))
	mkMessage(t, s, w, "from w", base.Add(2*time.Minute))
	tie := mkMessage(t, s, u, "tie", base.Add(time.Minute))

	feed, err := s.Messages.Feed(ctx, u.ID, 100)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, []uint{tie.ID, mv.ID, mu.ID}, []uint{feed[0].ID, feed[1].ID, feed[2].ID})
	require.NotNil(t, feed[1].User)
	assert.Equal(t, "v", feed[1].User.Username)

	limited, err := s.Messages.Feed(ctx, u.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestLikeRepo_Lifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a, b := mkUser(t, s, "a"), mkUser(t, s, "b")
	m := mkMessage(t, s, a, "hi", time.Now().UTC())

	require.NoError(t, s.Likes.Create(ctx, b.ID, m.ID))
	assert.ErrorIs(t, s.Likes.Create(ctx, b.ID, m.ID), domain.ErrDuplicate)

	liked, err := s.Likes.LikedMessages(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, m.ID, liked[0].ID)

	likers, err := s.Likes.Likers(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, likers, 1)
	assert.Equal(t, b.ID, likers[0].ID)

	existed, err := s.Likes.Delete(ctx, b.ID, m.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	existed, err = s.Likes.Delete(ctx, b.ID, m.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestStore_TxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := mkUser(t, s, "u")
	mkMessage(t, s, u, "keep me", time.Now().UTC())

	err := s.Tx(ctx, func(tx *repo.Store) error {
		require.NoError(t, tx.Messages.DeleteByUser(ctx, u.ID))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	n, err := s.Messages.CountByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSessionRepo_Expiry(t *testing.T) {
	db := testutil.NewDB(t)
	r := repo.NewSessionRepo(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &domain.Session{Token: "live", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, r.Save(ctx, &domain.Session{Token: "dead", UserID: 1, ExpiresAt: time.Now().Add(-time.Hour)}))

	s, err := r.Find(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.EqualValues(t, 1, s.UserID)

	s, err = r.Find(ctx, "dead")
	require.NoError(t, err)
	assert.Nil(t, s)

	n, err := r.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, r.DeleteByUser(ctx, 1))
	s, err = r.Find(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestIsDupKey(t *testing.T) {
	assert.False(t, repo.IsDupKey(nil))
	assert.True(t, repo.IsDupKey(assertErr("UNIQUE constraint failed: users.email")))
	assert.True(t, repo.IsDupKey(assertErr("Error 1062: Duplicate entry 'x' for key 'username'")))
	assert.False(t, repo.IsDupKey(assertErr("connection refused")))
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
