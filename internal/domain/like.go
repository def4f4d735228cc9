package domain

import (
	"context"
	"time"
)

type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"index"`
}

func (Like) TableName() string { return "likes" }

// LikeResult is the outcome of a toggle.
type LikeResult int

const (
	Unliked LikeResult = iota
	Liked
)

func (r LikeResult) String() string {
	if r == Liked {
		return "liked"
	}
	return "unliked"
}

type LikeRepository interface {
	Create(ctx context.Context, userID, messageID uint) error
	Delete(ctx context.Context, userID, messageID uint) (bool, error)
	Exists(ctx context.Context, userID, messageID uint) (bool, error)
	LikedMessages(ctx context.Context, userID uint) ([]Message, error)
	Likers(ctx context.Context, messageID uint) ([]User, error)
	CountByMessage(ctx context.Context, messageID uint) (int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
	DeleteByMessage(ctx context.Context, messageID uint) error
	DeleteByMessages(ctx context.Context, messageIDs []uint) error
}
