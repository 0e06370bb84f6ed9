package dto

import (
	"time"

	"libraryhub/internal/microservices/http-api/models"
)

// CreateUserRequest: payload to register a reader or librarian
type CreateUserRequest struct {
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	Address      *string    `json:"address"`
	Role         string     `json:"role"`
	RegisteredAt *time.Time `json:"registered_at"`
}

type UpdateUserRequest struct {
	CreateUserRequest
	Version int64 `json:"version" binding:"required,min=1"`
}

type UserResponse struct {
	ID           int64           `json:"id"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	Phone        *string         `json:"phone,omitempty"`
	Address      *string         `json:"address,omitempty"`
	Role         models.UserRole `json:"role"`
	RegisteredAt time.Time       `json:"registered_at"`
	Version      int64           `json:"version"`
}

type UserSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		Role:         u.Role,
		RegisteredAt: u.RegisteredAt,
		Version:      u.Version,
	}
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
}
