package dto

import "digistore/internal/model"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the session token and the authenticated user.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
