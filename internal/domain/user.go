package domain

import "time"

type UserRole string

const (
	RoleClient     UserRole = "client"
	RoleSpaceOwner UserRole = "space_owner"
	RoleAdmin      UserRole = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
