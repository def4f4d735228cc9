package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"warbler/internal/core/auth"
	"warbler/internal/domain"
)

// SessionGate turns a session token into an acting user. A caller is either anonymous
// or authenticated as exactly one user.
type SessionGate struct {
	users    *UserService
	sessions domain.SessionStore
	tokens   auth.RequestTokens
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewSessionGate(users *UserService, sessions domain.SessionStore, secret []byte, ttl time.Duration, l *zap.Logger) *SessionGate {
	return &SessionGate{
		users:    users,
		sessions: sessions,
		tokens:   auth.RequestTokens{Secret: secret},
		ttl:      ttl,
		log:      l,
		now:      time.Now,
	}
}

// Login fails with domain.ErrInvalidCredentials for an unknown user or a wrong password.
func (g *SessionGate) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	u, err := g.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		loginsTotal.WithLabelValues("failure").Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}
	sess, err := g.issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	loginsTotal.WithLabelValues("success").Inc()
	return sess, u, nil
}

// Signup creates the account and logs it in.
func (g *SessionGate) Signup(ctx context.Context, in SignupInput) (*domain.Session, *domain.User, error) {
	u, err := g.users.Signup(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	sess, err := g.issue(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return sess, u, nil
}

func (g *SessionGate) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return g.sessions.Delete(ctx, token)
}

// CurrentUser returns nil for an anonymous caller.
func (g *SessionGate) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	sess, err := g.sessions.Find(ctx, token)
	if err != nil || sess == nil {
		return nil, err
	}
	u, err := g.users.store.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		// account is gone; drop the dangling session
		if err := g.sessions.Delete(ctx, token); err != nil {
			g.log.Warn("drop dangling session", zap.Error(err))
		}
		return nil, nil
	}
	return u, nil
}

func (g *SessionGate) RequireAuthenticated(ctx context.Context, token string) (*domain.User, error) {
	u, err := g.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (g *SessionGate) RequestToken(token string) string { return g.tokens.For(token) }

func (g *SessionGate) VerifyRequestToken(token, presented string) bool {
	return g.tokens.Verify(token, presented)
}

// DeleteAccount removes the user with everything they own and revokes their sessions.
func (g *SessionGate) DeleteAccount(ctx context.Context, userID uint) error {
	if err := g.users.Delete(ctx, userID); err != nil {
		return err
	}
	if err := g.sessions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (g *SessionGate) issue(ctx context.Context, userID uint) (*domain.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := g.now()
	sess := &domain.Session{Token: token, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(g.ttl)}
	if err := g.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
