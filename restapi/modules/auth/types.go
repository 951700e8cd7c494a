// Package auth provides authentication and authorization types for the REST API.
package auth

import "context"

// LoginRequest defines the body for every login endpoint
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest defines the body for customer and barista registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AdminRegisterRequest defines the body for admin registration
type AdminRegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginLimiter throttles repeated failed logins. A nil LoginLimiter disables throttling.
type LoginLimiter interface {
	CheckLogin(ctx context.Context, identifier string) error
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}
