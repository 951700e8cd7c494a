// Package model provides the document models stored by the baristahub backend.
package model

import (
	"strings"
	"time"
)

// Roles a user account can hold. Admins live in their own collection.
const (
	RoleCustomer = "customer"
	RoleBarista  = "barista"
	RoleAdmin    = "admin"
)

// User represents a customer or barista account in the users collection
type User struct {
	Key               string            `json:"_key,omitempty"`
	Username          string            `json:"username"`
	Email             string            `json:"email"`
	PasswordHash      string            `json:"password_hash,omitempty"`
	Role              string            `json:"role"` // customer, barista
	ApplicationStatus ApplicationStatus `json:"application_status"`
	Application       *Application      `json:"application,omitempty"`
	IsActive          bool              `json:"is_active"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Application holds the profile a barista submits for review
type Application struct {
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone"`
	ExperienceYears int        `json:"experience_years"`
	Bio             string     `json:"bio,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewNote      string     `json:"review_note,omitempty"`
}

// Review is an admin decision on a pending application
type Review struct {
	Decision   ApplicationStatus
	ReviewedBy string
	Note       string
	At         time.Time
}

// NewUser creates a new active user with default values
func NewUser(username, email, role string) *User {
	now := time.Now().UTC()
	if role == "" {
		role = RoleCustomer
	}
	return &User{
		Username:          username,
		Email:             NormalizeEmail(email),
		Role:              role,
		ApplicationStatus: StatusUnset,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsBarista returns true if the user registered as a barista
func (u *User) IsBarista() bool {
	return u.Role == RoleBarista
}

// ValidRole reports whether role may be chosen at registration.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleBarista
}

// NormalizeEmail lowercases and trims an address so the unique index
// compares addresses the way users expect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
