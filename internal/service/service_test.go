package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"warbler/internal/domain"
	"warbler/internal/repo"
	"warbler/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	store    *repo.Store
	sessions *repo.SessionRepo
	users    *UserService
	follows  *FollowService
	messages *MessageService
	likes    *LikeService
	gate     *SessionGate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	l := zap.NewNop()
	store := repo.NewStore(db)
	f := &fixture{
		db:       db,
		store:    store,
		sessions: repo.NewSessionRepo(db),
		users:    NewUserService(store, l),
		follows:  NewFollowService(store, l),
		messages: NewMessageService(store, l),
		likes:    NewLikeService(store, l),
	}
	f.gate = NewSessionGate(f.users, f.sessions, []byte("test-secret"), time.Hour, l)
	return f
}

func (f *fixture) signup(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.users.Signup(context.Background(), SignupInput{
		Username: name, Email: name + "@e.com", Password: "password",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) post(t *testing.T, u *domain.User, text string) *domain.Message {
	t.Helper()
	m, err := f.messages.Create(context.Background(), u.ID, text)
	require.NoError(t, err)
	return m
}
