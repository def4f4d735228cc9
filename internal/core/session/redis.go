// Package session holds the Redis-backed session store (session.store: redis).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"warbler/internal/domain"
)

const keyPrefix = "warbler:"

type RedisStore struct {
	RDB *redis.Client
	now func() time.Time
}

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{RDB: rdb, now: time.Now}
}

func sessionKey(token string) string { return keyPrefix + "sess:" + token }
func userKey(userID uint) string    { return keyPrefix + "user-sess:" + strconv.FormatUint(uint64(userID), 10) }

// Save stores the session under its token with a TTL matching ExpiresAt and indexes
// the token under the owning user for DeleteByUser.
func (s *RedisStore) Save(ctx context.Context, sess *domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("save session: already expired")
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now()
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	uk := userKey(sess.UserID)
	_, err = s.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.Token), b, ttl)
		p.SAdd(ctx, uk, sess.Token)
		p.Expire(ctx, uk, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	b, err := s.RDB.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.Token = token
	if sess.Expired(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	sess, err := s.Find(ctx, token)
	if err != nil {
		return err
	}
	_, err = s.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, sessionKey(token))
		if sess != nil {
			p.SRem(ctx, userKey(sess.UserID), token)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteByUser(ctx context.Context, userID uint) error {
	uk := userKey(userID)
	tokens, err := s.RDB.SMembers(ctx, uk).Result()
	if err != nil {
		return fmt.Errorf("list sessions of user %d: %w", userID, err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKey(t))
	}
	keys = append(keys, uk)
	if err := s.RDB.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete sessions of user %d: %w", userID, err)
	}
	return nil
}

var _ domain.SessionStore = (*RedisStore)(nil)
