package models

import (
	"time"
)

type UserRole string

const (
	RoleReader    UserRole = "Reader"
	RoleLibrarian UserRole = "Librarian"
)

// ParseUserRole accepts the canonical role names only.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleReader, RoleLibrarian:
		return UserRole(s), true
	}
	return "", false
}

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        *string   `gorm:"column:phone_number" json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Role         UserRole  `gorm:"type:varchar(20);default:'Reader';not null" json:"role"`
	RegisteredAt time.Time `gorm:"not null" json:"registered_at"`
	Version      int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
