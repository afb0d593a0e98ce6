package storage

import "fashionhub/internal/models"

// Store defines the persistence operations the session API needs.
// Handlers depend on this interface so tests can swap the backend.
type Store interface {
	// User operations
	GetUserByID(id int64) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateAvatar(userID int64, avatar string) error

	// Lifecycle
	Close() error
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
