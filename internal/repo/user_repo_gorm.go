package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"warbler/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return r.save(ctx, u, func(tx *gorm.DB) error { return tx.Create(u).Error })
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

// Search matches usernames containing q, case-sensitively on every dialect:
// LIKE narrows the candidates, strings.Contains decides.
func (r *UserRepo) Search(ctx context.Context, q string) ([]domain.User, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if q != "" {
		tx = tx.Where("username LIKE ? ESCAPE '!'", "%"+escapeLike(q)+"%")
	}
	var us []domain.User
	if err := tx.Order("id").Find(&us).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if q == "" {
		return us, nil
	}
	out := us[:0]
	for _, u := range us {
		if strings.Contains(u.Username, q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// Taken reports whether another user (id != exceptID) already holds value in column
// "username" or "email".
func (r *UserRepo) Taken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	if column != "username" && column != "email" {
		return false, fmt.Errorf("taken: unsupported column %q", column)
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where(column+" = ? AND id <> ?", value, exceptID).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return n > 0, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return r.save(ctx, u, func(tx *gorm.DB) error { return tx.Save(u).Error })
}

// save runs write in a nested transaction. Inside an outer transaction gorm turns it into
// a savepoint, so a failed write rolls back to it and the outer transaction stays usable
// for uniqueErr's lookup (Postgres aborts the whole transaction otherwise).
func (r *UserRepo) save(ctx context.Context, u *domain.User, write func(tx *gorm.DB) error) error {
	err := r.db.WithContext(ctx).Transaction(write)
	if err != nil {
		return r.uniqueErr(ctx, err, u)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

// uniqueErr maps a unique violation onto the conflicting field.
func (r *UserRepo) uniqueErr(ctx context.Context, err error, u *domain.User) error {
	if !IsDupKey(err) {
		return fmt.Errorf("save user: %w", err)
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "email"):
		return &domain.UniqueViolationError{Field: "email"}
	case strings.Contains(msg, "username"):
		return &domain.UniqueViolationError{Field: "username"}
	}
	// translated errors carry no column name; the conflicting row tells which one
	taken, terr := r.Taken(ctx, "username", u.Username, u.ID)
	if terr != nil {
		return fmt.Errorf("resolve duplicate (%v): %w", err, terr)
	}
	if taken {
		return &domain.UniqueViolationError{Field: "username"}
	}
	return &domain.UniqueViolationError{Field: "email"}
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

var _ domain.UserRepository = (*UserRepo)(nil)
