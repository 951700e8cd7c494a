package loginflow

import "strings"

// Credentials are held only for the duration of one submission
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns ErrMissingField when either field is blank
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Password) == "" {
		return ErrMissingField
	}
	return nil
}
