package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"warbler/internal/domain"
)

// Store groups the repositories over one *gorm.DB, which may be a transaction.
type Store struct {
	db       *gorm.DB
	Users    *UserRepo
	Follows  *FollowRepo
	Messages *MessageRepo
	Likes    *LikeRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepo(db),
		Follows:  NewFollowRepo(db),
		Messages: NewMessageRepo(db),
		Likes:    NewLikeRepo(db),
	}
}

// Tx runs fn against a Store bound to a single transaction.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) DB() *gorm.DB { return s.db }

// Models lists every entity for AutoMigrate.
func Models() []any {
	return []any{&domain.User{}, &domain.Message{}, &domain.Follow{}, &domain.Like{}, &domain.Session{}}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }

// IsDupKey reports a unique-constraint violation regardless of driver.
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
