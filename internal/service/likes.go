package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"warbler/internal/domain"
	"warbler/internal/repo"
)

// LikeService owns the user-likes-message edges.
type LikeService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewLikeService(store *repo.Store, l *zap.Logger) *LikeService {
	return &LikeService{store: store, log: l}
}

// Toggle flips the like edge. Liking one's own message yields domain.ErrSelfLike and
// leaves no edge. An insert lost to a concurrent toggle still reports Liked.
func (s *LikeService) Toggle(ctx context.Context, userID, messageID uint) (domain.LikeResult, error) {
	res := domain.Unliked
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		m, err := tx.Messages.FindByID(ctx, messageID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		if m.UserID == userID {
			return domain.ErrSelfLike
		}
		removed, err := tx.Likes.Delete(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if removed {
			res = domain.Unliked
			return nil
		}
		if err := tx.Likes.Create(ctx, userID, messageID); err != nil {
			return err
		}
		res = domain.Liked
		return nil
	})
	if errors.Is(err, domain.ErrDuplicate) {
		res, err = domain.Liked, nil
	}
	if err != nil {
		return domain.Unliked, err
	}
	likeTogglesTotal.WithLabelValues(res.String()).Inc()
	return res, nil
}

func (s *LikeService) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.store.Likes.Exists(ctx, userID, messageID)
}

// LikedMessages lists messages the user liked, most recent like first.
func (s *LikeService) LikedMessages(ctx context.Context, userID uint) ([]domain.Message, error) {
	u, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Likes.LikedMessages(ctx, userID)
}

func (s *LikeService) LikesFor(ctx context.Context, messageID uint) ([]domain.User, error) {
	return s.store.Likes.Likers(ctx, messageID)
}

func (s *LikeService) LikeCount(ctx context.Context, messageID uint) (int64, error) {
	return s.store.Likes.CountByMessage(ctx, messageID)
}
