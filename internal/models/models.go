package models

import (
	"time"

	"fashionhub/pkg/protocol"
)

// DefaultRole is assigned to accounts created through signup.
const DefaultRole = "user"

// User is a row in the users table.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Avatar       *string
	Role         *string `gorm:"default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the session view of the user, without the password hash.
func (u *User) Public() *protocol.User {
	return &protocol.User{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Avatar: u.Avatar,
		Role:   u.Role,
	}
}
