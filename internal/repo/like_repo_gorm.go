package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/domain"
)

type LikeRepo struct{ db *gorm.DB }

func NewLikeRepo(db *gorm.DB) *LikeRepo { return &LikeRepo{db: db} }

// Create inserts the edge; a duplicate returns an error matching domain.ErrDuplicate.
func (r *LikeRepo) Create(ctx context.Context, userID, messageID uint) error {
	err := r.db.WithContext(ctx).Create(&domain.Like{UserID: userID, MessageID: messageID}).Error
	if IsDupKey(err) {
		return &domain.UniqueViolationError{Field: "like"}
	}
	if err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

// Delete removes the edge and reports whether it existed.
func (r *LikeRepo) Delete(ctx context.Context, userID, messageID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&domain.Like{})
	if res.Error != nil {
		return false, fmt.Errorf("delete like: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *LikeRepo) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return n > 0, nil
}

// LikedMessages returns the messages userID liked, most recent like first.
func (r *LikeRepo) LikedMessages(ctx context.Context, userID uint) ([]domain.Message, error) {
	var ms []domain.Message
	err := r.db.WithContext(ctx).Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").Order("messages.id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("liked messages of user %d: %w", userID, err)
	}
	return ms, nil
}

func (r *LikeRepo) Likers(ctx context.Context, messageID uint) ([]domain.User, error) {
	var us []domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.message_id = ?", messageID).
		Order("users.id").
		Find(&us).Error
	if err != nil {
		return nil, fmt.Errorf("likers of message %d: %w", messageID, err)
	}
	return us, nil
}

func (r *LikeRepo) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).Where("message_id = ?", messageID).Count(&n).Error
	return n, err
}

func (r *LikeRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *LikeRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Like{}).Error; err != nil {
		return fmt.Errorf("delete likes by user %d: %w", userID, err)
	}
	return nil
}

func (r *LikeRepo) DeleteByMessage(ctx context.Context, messageID uint) error {
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).Delete(&domain.Like{}).Error; err != nil {
		return fmt.Errorf("delete likes of message %d: %w", messageID, err)
	}
	return nil
}

func (r *LikeRepo) DeleteByMessages(ctx context.Context, messageIDs []uint) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("message_id IN ?", messageIDs).Delete(&domain.Like{}).Error; err != nil {
		return fmt.Errorf("delete likes of messages: %w", err)
	}
	return nil
}

var _ domain.LikeRepository = (*LikeRepo)(nil)
