package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
)

func TestGate_LoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "u1")

	_, _, err := f.gate.Login(ctx, "u1", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = f.gate.Login(ctx, "ghost", "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	sess, u, err := f.gate.Login(ctx, "u1", "password")
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64)

	cur, err := f.gate.RequireAuthenticated(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	require.NoError(t, f.gate.Logout(ctx, sess.Token))
	require.NoError(t, f.gate.Logout(ctx, sess.Token))
	_, err = f.gate.RequireAuthenticated(ctx, sess.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGate_Anonymous(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, tok := range []string{"", "deadbeef"} {
		u, err := f.gate.CurrentUser(ctx, tok)
		require.NoError(t, err)
		assert.Nil(t, u)
		_, err = f.gate.RequireAuthenticated(ctx, tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
}

func TestGate_ExpiredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "u1")

	f.gate.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	sess, _, err := f.gate.Login(ctx, "u1", "password")
	require.NoError(t, err)

	u, err := f.gate.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGate_SignupLogsIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, u, err := f.gate.Signup(ctx, SignupInput{Username: "n", Email: "n@e.com", Password: "pw"})
	require.NoError(t, err)
	cur, err := f.gate.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, u.ID, cur.ID)
}

func TestGate_RequestToken(t *testing.T) {
	f := newFixture(t)
	tok := f.gate.RequestToken("session-a")
	assert.NotEmpty(t, tok)
	assert.True(t, f.gate.VerifyRequestToken("session-a", tok))
	assert.False(t, f.gate.VerifyRequestToken("session-b", tok))
	assert.False(t, f.gate.VerifyRequestToken("session-a", ""))
	assert.False(t, f.gate.VerifyRequestToken("", f.gate.RequestToken("")))
}

func TestGate_DeleteAccountRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "u1")
	s1, u, err := f.gate.Login(ctx, "u1", "password")
	require.NoError(t, err)
	s2, _, err := f.gate.Login(ctx, "u1", "password")
	require.NoError(t, err)

	require.NoError(t, f.gate.DeleteAccount(ctx, u.ID))

	for _, s := range []*domain.Session{s1, s2} {
		found, err := f.sessions.Find(ctx, s.Token)
		require.NoError(t, err)
		assert.Nil(t, found)
	}
	_, _, err = f.gate.Login(ctx, "u1", "password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Signup(ctx, SignupInput{Username: "u1", Email: "u1@e.com", Password: "pw"})
	require.NoError(t, err)
	sess, _, err := f.gate.Login(ctx, "u1", "pw")
	require.NoError(t, err)
	actor, err := f.gate.RequireAuthenticated(ctx, sess.Token)
	require.NoError(t, err)

	m, err := f.messages.Create(ctx, actor.ID, "hello")
	require.NoError(t, err)
	feed, err := f.messages.FeedFor(ctx, actor.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "hello", feed[0].Text)

	require.NoError(t, f.messages.Delete(ctx, m.ID, actor.ID))
	feed, err = f.messages.FeedFor(ctx, actor.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
