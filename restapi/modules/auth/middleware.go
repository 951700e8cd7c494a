package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware
const (
	LocalAuthenticated = "is_authenticated"
	LocalSubject       = "subject"
	LocalEmail         = "email"
	LocalRole          = "role"
)

// RequireAuth middleware validates JWT token from cookie and blocks guests
func RequireAuth(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired session",
		})
	}

	setIdentity(c, claims)
	return c.Next()
}

// OptionalAuth identifies the caller if a token is present but does not block guests.
func OptionalAuth(c *fiber.Ctx) error {
	c.Locals(LocalAuthenticated, false)

	token := c.Cookies(CookieName)
	if token == "" {
		return c.Next()
	}

	// Treat invalid/expired tokens as guest access
	if claims, err := ValidateJWT(token); err == nil {
		setIdentity(c, claims)
	}
	return c.Next()
}

// RequireRole middleware checks if user has one of the required roles
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(LocalRole).(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		for _, role := range allowedRoles {
			if userRole == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Insufficient permissions",
		})
	}
}

// Subject returns the authenticated account key, or "" for guests
func Subject(c *fiber.Ctx) string {
	subject, _ := c.Locals(LocalSubject).(string)
	return subject
}

func setIdentity(c *fiber.Ctx, claims *Claims) {
	c.Locals(LocalAuthenticated, true)
	c.Locals(LocalSubject, claims.Subject)
	c.Locals(LocalEmail, claims.Email)
	c.Locals(LocalRole, claims.Role)
}
