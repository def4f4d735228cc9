package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"warbler/internal/domain"
	"warbler/internal/repo"
	"warbler/pkg/utils"
)

type SignupInput struct {
	Username string `json:"username" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	ImageURL string `json:"imageUrl" validate:"max=255"`
}

type ProfileInput struct {
	Username       string `json:"username" validate:"required,max=30"`
	Email          string `json:"email" validate:"required,email,max=50"`
	ImageURL       string `json:"imageUrl" validate:"max=255"`
	HeaderImageURL string `json:"headerImageUrl" validate:"max=255"`
	Bio            string `json:"bio" validate:"max=300"`
	Location       string `json:"location" validate:"max=30"`
}

// Profile is a user with the counters shown on their page.
type Profile struct {
	User  *domain.User     `json:"user"`
	Stats domain.UserStats `json:"stats"`
}

// UserService is the user directory: accounts, credentials and profile data.
type UserService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewUserService(store *repo.Store, l *zap.Logger) *UserService {
	return &UserService{store: store, log: l}
}

// Signup validates the input, hashes the password and persists the user.
// A taken username or email fails with *domain.UniqueViolationError.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, s.store, in.Username, in.Email, 0); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		PasswordHash:   hash,
		ImageURL:       orDefault(in.ImageURL, domain.DefaultImageURL),
		HeaderImageURL: domain.DefaultHeaderImageURL,
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	signupsTotal.Inc()
	s.log.Info("user signed up", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Authenticate returns (nil, nil) for an unknown username or a wrong password.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.store.Users.FindByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *UserService) Profile(ctx context.Context, id uint) (*Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u}
	if p.Stats.Messages, err = s.store.Messages.CountByUser(ctx, id); err != nil {
		return nil, err
	}
	if p.Stats.Followers, err = s.store.Follows.CountFollowers(ctx, id); err != nil {
		return nil, err
	}
	if p.Stats.Following, err = s.store.Follows.CountFollowing(ctx, id); err != nil {
		return nil, err
	}
	if p.Stats.Likes, err = s.store.Likes.CountByUser(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile re-verifies currentPassword before applying any change.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput, currentPassword string) (*domain.User, error) {
	var out *domain.User
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		u, err := tx.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		if !utils.CheckPassword(currentPassword, u.PasswordHash) {
			return domain.ErrInvalidCredentials
		}
		if err := validateStruct(in); err != nil {
			return err
		}
		if err := s.checkUnique(ctx, tx, in.Username, in.Email, u.ID); err != nil {
			return err
		}
		u.Username = in.Username
		u.Email = in.Email
		u.ImageURL = orDefault(in.ImageURL, domain.DefaultImageURL)
		u.HeaderImageURL = orDefault(in.HeaderImageURL, domain.DefaultHeaderImageURL)
		u.Bio = in.Bio
		u.Location = in.Location
		if err := tx.Users.Update(ctx, u); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the user with their messages, the likes on those messages, the likes
// they gave and every follow edge touching them, all in one transaction.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	err := s.store.Tx(ctx, func(tx *repo.Store) error {
		u, err := tx.Users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		ids, err := tx.Messages.IDsByUser(ctx, userID)
		if err != nil {
			return err
		}
		if err := tx.Likes.DeleteByMessages(ctx, ids); err != nil {
			return err
		}
		if err := tx.Likes.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Follows.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Messages.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	accountsDeletedTotal.Inc()
	s.log.Info("user deleted", zap.Uint("user_id", userID))
	return nil
}

// Search returns every user, or those whose username contains q (case-sensitive).
func (s *UserService) Search(ctx context.Context, q string) ([]domain.User, error) {
	return s.store.Users.Search(ctx, q)
}

func (s *UserService) checkUnique(ctx context.Context, st *repo.Store, username, email string, exceptID uint) error {
	taken, err := st.Users.Taken(ctx, "username", username, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return &domain.UniqueViolationError{Field: "username"}
	}
	taken, err = st.Users.Taken(ctx, "email", email, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return &domain.UniqueViolationError{Field: "email"}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
