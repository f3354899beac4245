package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"collections-backend/models"
)

var (
	ErrUserNotFound = errors.New("store: user not found")
	// ErrDuplicateUsername signals a provisioning conflict.
	ErrDuplicateUsername = errors.New("store: username already exists")
)

// GetUserByUsername fetches one operator account.
func (s *Store) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("store: get user: %w", err)
	}
	return user, nil
}

// CreateUser provisions a new operator account.
func (s *Store) CreateUser(user *models.User) error {
	if err := s.db.Create(user).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}
