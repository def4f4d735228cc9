package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"warbler/internal/domain"
	"warbler/internal/repo"
)

// FollowService owns the directed follow graph between users.
type FollowService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewFollowService(store *repo.Store, l *zap.Logger) *FollowService {
	return &FollowService{store: store, log: l}
}

// Follow creates the edge. An existing edge yields domain.ErrAlreadyFollowing, which
// callers may treat as success. Self-follows are not rejected.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) error {
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		u, err := tx.Users.FindByID(ctx, followedID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		exists, err := tx.Follows.Exists(ctx, followerID, followedID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyFollowing
		}
		return tx.Follows.Create(ctx, followerID, followedID)
	})
	if errors.Is(err, domain.ErrAlreadyFollowing) {
		s.log.Debug("duplicate follow", zap.Uint("follower", followerID), zap.Uint("followed", followedID))
		return err
	}
	if err != nil {
		return err
	}
	followChangesTotal.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge; a missing edge is not an error.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	if err := s.store.Follows.Delete(ctx, followerID, followedID); err != nil {
		return err
	}
	followChangesTotal.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether a follows b.
func (s *FollowService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Follows.Exists(ctx, a, b)
}

// IsFollowedBy reports whether a is followed by b.
func (s *FollowService) IsFollowedBy(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Follows.Exists(ctx, b, a)
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]domain.User, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Follows.Followers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]domain.User, error) {
	if err := s.mustExist(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.Follows.Following(ctx, userID)
}

func (s *FollowService) mustExist(ctx context.Context, userID uint) error {
	u, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return nil
}
