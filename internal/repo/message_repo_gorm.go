package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/domain"
)

type MessageRepo struct{ db *gorm.DB }

func NewMessageRepo(db *gorm.DB) *MessageRepo { return &MessageRepo{db: db} }

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(m).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *MessageRepo) FindByID(ctx context.Context, id uint) (*domain.Message, error) {
	var m domain.Message
	err := r.db.WithContext(ctx).Preload("User").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message %d: %w", id, err)
	}
	return &m, nil
}

func (r *MessageRepo) ListByUser(ctx context.Context, userID uint, limit int) ([]domain.Message, error) {
	var ms []domain.Message
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("list messages of user %d: %w", userID, err)
	}
	return ms, nil
}

// Feed returns messages by userID or anyone userID follows, newest first.
func (r *MessageRepo) Feed(ctx context.Context, userID uint, limit int) ([]domain.Message, error) {
	followed := r.db.Model(&domain.Follow{}).Select("followed_id").Where("follower_id = ?", userID)
	var ms []domain.Message
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&ms).Error
	if err != nil {
		return nil, fmt.Errorf("feed for user %d: %w", userID, err)
	}
	return ms, nil
}

func (r *MessageRepo) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("message ids of user %d: %w", userID, err)
	}
	return ids, nil
}

func (r *MessageRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Message{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *MessageRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Message{}).Error; err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	return nil
}

func (r *MessageRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Message{}).Error; err != nil {
		return fmt.Errorf("delete messages of user %d: %w", userID, err)
	}
	return nil
}

var _ domain.MessageRepository = (*MessageRepo)(nil)
