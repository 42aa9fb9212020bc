package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash never serializes.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is a user together with their roles, the shape returned by
// login and the profile endpoint.
type UserProfile struct {
	User
	Roles []Role `json:"roles"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,min=1,max=200"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token and the authenticated profile.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UpdateUserRequest is the payload for profile edits.
type UpdateUserRequest struct {
	FullName  string  `json:"full_name" binding:"omitempty,min=1,max=200"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}
