package domain

import (
	"context"
	"time"
)

// Placeholders written into the row at signup, never computed at read time.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:50;not null" json:"email"`
	PasswordHash   string    `gorm:"size:100;not null" json:"-"`
	ImageURL       string    `gorm:"size:255;not null" json:"imageUrl"`
	HeaderImageURL string    `gorm:"size:255;not null" json:"headerImageUrl"`
	Bio            string    `gorm:"size:300" json:"bio"`
	Location       string    `gorm:"size:30" json:"location"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// UserStats backs the profile page counters.
type UserStats struct {
	Messages  int64 `json:"messages"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Likes     int64 `json:"likes"`
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Taken(ctx context.Context, column, value string, exceptID uint) (bool, error)
	Search(ctx context.Context, q string) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uint) error
}
