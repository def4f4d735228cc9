package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"warbler/internal/domain"
	"warbler/internal/repo"
)

// MessageService stores warbles and builds the home feed.
type MessageService struct {
	store *repo.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewMessageService(store *repo.Store, l *zap.Logger) *MessageService {
	return &MessageService{store: store, log: l, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores text as given. Empty, whitespace-only or over-long text is rejected.
func (s *MessageService) Create(ctx context.Context, authorID uint, text string) (*domain.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ValidationError{Field: "text", Msg: "is required"}
	}
	if utf8.RuneCountInString(text) > domain.MessageMaxLen {
		return nil, &domain.ValidationError{Field: "text", Msg: "must be at most 140 characters"}
	}
	m := &domain.Message{Text: text, UserID: authorID, CreatedAt: s.now()}
	if err := s.store.Messages.Create(ctx, m); err != nil {
		return nil, err
	}
	messagesCreatedTotal.Inc()
	return m, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*domain.Message, error) {
	m, err := s.store.Messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// Delete removes the message and its likes. Only the author may delete it.
func (s *MessageService) Delete(ctx context.Context, messageID, requestingUserID uint) error {
	return s.store.Tx(ctx, func(tx *repo.Store) error {
		m, err := tx.Messages.FindByID(ctx, messageID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.UserID != requestingUserID {
			s.log.Info("message delete refused",
				zap.Uint("message_id", messageID), zap.Uint("user_id", requestingUserID))
			return domain.ErrForbidden
		}
		if err := tx.Likes.DeleteByMessage(ctx, messageID); err != nil {
			return err
		}
		return tx.Messages.Delete(ctx, messageID)
	})
}

// FeedFor returns the newest messages written by userID or anyone they follow.
func (s *MessageService) FeedFor(ctx context.Context, userID uint) ([]domain.Message, error) {
	return s.store.Messages.Feed(ctx, userID, domain.FeedLimit)
}

// ByUser lists the user's own messages, newest first.
func (s *MessageService) ByUser(ctx context.Context, userID uint) ([]domain.Message, error) {
	u, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Messages.ListByUser(ctx, userID, domain.FeedLimit)
}
