package dto

import (
	"time"

	"github.com/yukikurage/project-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Company   *string   `json:"empresa"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users []UserDTO `json:"usuarios"`
	Page
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"usuario"`
}

// EmailCheckResponse answers an email availability check
type EmailCheckResponse struct {
	Email  string `json:"email"`
	Exists bool   `json:"existe"`
}

// Page carries the paging metadata of list responses
type Page struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Company:   user.Company,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserListResponse converts a page of users
func ToUserListResponse(users []models.User, page Page) UserListResponse {
	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = ToUserDTO(&users[i])
	}
	return UserListResponse{Users: items, Page: page}
}
