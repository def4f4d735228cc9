package domain

import (
	"context"
	"time"
)

// Follow is a directed edge: FollowerID follows FollowedID.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

func (Follow) TableName() string { return "follows" }

type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) error
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]User, error)
	Following(ctx context.Context, userID uint) ([]User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
}
