package database

import (
	"context"
	"errors"
	"fmt"

	"starship-dashboard/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts u. A taken username yields ErrUsernameTaken.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := s.FindUserByUsername(ctx, u.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &u, nil
}

// FindUserByID retrieves a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &u, nil
}
