package domain

import (
	"context"
	"time"
)

const (
	MessageMaxLen = 140
	// FeedLimit bounds the home feed and profile message lists.
	FeedLimit = 100
)

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:140;not null" json:"text"`
	CreatedAt time.Time `gorm:"index;not null" json:"timestamp"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Message) TableName() string { return "messages" }

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]Message, error)
	Feed(ctx context.Context, userID uint, limit int) ([]Message, error)
	IDsByUser(ctx context.Context, userID uint) ([]uint, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}
