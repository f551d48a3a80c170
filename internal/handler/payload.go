package handler

import "time"

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Phone     string `json:"phone"     validate:"required"`
	Password  string `json:"password"  validate:"required,password"`
}

type RegisterResponse struct {
	Message              string `json:"message"`
	RequiresVerification bool   `json:"requiresVerification"`
	EmailDelivered       bool   `json:"emailDelivered"`
	RedirectURL          string `json:"redirectUrl"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message     string      `json:"message"`
	User        AccountInfo `json:"user"`
	RedirectURL string      `json:"redirectUrl"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code"  validate:"required"`
}

type VerifyResponse struct {
	Message     string      `json:"message"`
	User        AccountInfo `json:"user"`
	RedirectURL string      `json:"redirectUrl"`
}

type AccountInfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

type ProfileResponse struct {
	User Profile `json:"user"`
}

// Profile is the full account projection minus the password hash.
type Profile struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
