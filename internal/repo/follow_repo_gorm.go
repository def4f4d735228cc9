package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/domain"
)

type FollowRepo struct{ db *gorm.DB }

func NewFollowRepo(db *gorm.DB) *FollowRepo { return &FollowRepo{db: db} }

// Create inserts the edge. A second insert for the same pair returns domain.ErrAlreadyFollowing.
func (r *FollowRepo) Create(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).Create(&domain.Follow{FollowerID: followerID, FollowedID: followedID}).Error
	if IsDupKey(err) {
		return domain.ErrAlreadyFollowing
	}
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

func (r *FollowRepo) Delete(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&domain.Follow{}).Error
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *FollowRepo) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return n > 0, nil
}

// Followers lists users following userID.
func (r *FollowRepo) Followers(ctx context.Context, userID uint) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.id").
		Find(&us).Error
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return us, nil
}

// Following lists users that userID follows.
func (r *FollowRepo) Following(ctx context.Context, userID uint) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.id").
		Find(&us).Error
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return us, nil
}

func (r *FollowRepo) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *FollowRepo) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// DeleteByUser removes every edge touching userID, in both directions.
func (r *FollowRepo) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&domain.Follow{}).Error
	if err != nil {
		return fmt.Errorf("delete follows of user %d: %w", userID, err)
	}
	return nil
}

var _ domain.FollowRepository = (*FollowRepo)(nil)
