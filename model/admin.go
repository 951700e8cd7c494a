package model

import "time"

// Admin represents a back-office account in the admins collection.
// Email is unique; the database index enforces it.
type Admin struct {
	Key       string    `json:"_key,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAdmin creates an admin whose timestamps default to now.
func NewAdmin(username, email, passwordHash string) *Admin {
	now := time.Now().UTC()
	return &Admin{
		Username:  username,
		Email:     NormalizeEmail(email),
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records a mutation; the store does not update timestamps itself.
func (a *Admin) Touch() {
	a.UpdatedAt = time.Now().UTC()
}
