package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"warbler/internal/core/config"
	"warbler/internal/core/session"
	"warbler/internal/repo"
	"warbler/internal/service"
)

func testConfig(store string) *config.Config {
	return &config.Config{
		DB: config.DB{
			Driver:       "sqlite",
			DSN:          ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
			LogLevel:     "silent",
		},
		Session: config.Session{Store: store, Secret: "s", TTLHours: 1, CookieName: "c"},
	}
}

func TestNew_DBSessions(t *testing.T) {
	a, err := New(context.Background(), testConfig("db"), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	sess, u, err := a.Services.Gate.Signup(ctx, service.SignupInput{Username: "u", Email: "u@e.com", Password: "pw"})
	require.NoError(t, err)
	cur, err := a.Services.Gate.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, u.ID, cur.ID)

	found, err := repo.NewSessionRepo(a.DB).Find(ctx, sess.Token)
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestNew_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig("redis")
	cfg.Redis = config.Redis{Addr: mr.Addr()}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	sess, _, err := a.Services.Gate.Signup(ctx, service.SignupInput{Username: "u", Email: "u@e.com", Password: "pw"})
	require.NoError(t, err)

	found, err := session.NewRedisStore(a.rdb).Find(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sess.UserID, found.UserID)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(context.Background(), testConfig("memcached"), zap.NewNop())
	assert.ErrorContains(t, err, "unknown session store")

	cfg := testConfig("db")
	cfg.DB.Driver = "oracle"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
