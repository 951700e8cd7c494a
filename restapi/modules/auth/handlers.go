// Package auth provides authentication handlers for Fiber.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/internal/rate"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var logger = database.InitLogger()

// ============================================================================
// USER HANDLERS
// ============================================================================

// Register handles customer and barista registration
func Register(store database.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		if req.Role == "" {
			req.Role = model.RoleCustomer
		}
		if req.Username == "" || model.NormalizeEmail(req.Email) == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "All fields are required."})
		}
		if err := ValidateEmail(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if !model.ValidRole(req.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": fmt.Sprintf("Invalid role '%s'", req.Role)})
		}
		if err := ValidatePasswordStrength(req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		passwordHash, err := HashPassword(req.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to hash password"})
		}

		user := model.NewUser(req.Username, req.Email, req.Role)
		user.PasswordHash = passwordHash

		if err := store.CreateUser(c.UserContext(), user); err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email is already in use"})
			}
			logger.Sugar().Errorf("Failed to create user %s: %v", user.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create user"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered successfully",
			"user": fiber.Map{
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
		})
	}
}

// Login authenticates an account of the given role and sets the auth cookie
func Login(store database.UserStore, limiter LoginLimiter, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		email := model.NormalizeEmail(req.Email)
		if email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email and password are required"})
		}

		ctx := c.UserContext()
		if loginBlocked(ctx, limiter, email) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many failed login attempts, try again later"})
		}

		user, err := store.GetUserByEmail(ctx, email)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			logger.Sugar().Errorf("Failed to fetch user %s: %v", email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch user"})
		}
		if err != nil || !CheckPasswordHash(req.Password, user.PasswordHash) {
			recordLoginFailure(ctx, limiter, email)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}

		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Account is inactive"})
		}
		if user.Role != role {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": fmt.Sprintf("This account is not registered as a %s", role)})
		}

		resetLoginFailures(ctx, limiter, email)

		token, err := GenerateJWT(user.Key, user.Email, user.Role)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate token"})
		}

		SetAuthCookie(c, token)

		return c.JSON(fiber.Map{
			"message":  "Login successful",
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		})
	}
}

// Logout clears the auth cookie
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    "",
			Expires:  time.Now().Add(-1 * time.Hour),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   false,
			SameSite: "Lax",
			Path:     "/",
		})
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	}
}

// Me returns the current authenticated account
func Me(store database.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		if role == model.RoleAdmin {
			return c.JSON(fiber.Map{
				"email": c.Locals(LocalEmail),
				"role":  role,
			})
		}

		user, err := store.GetUserByKey(c.UserContext(), Subject(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch user profile"})
		}

		profile := fiber.Map{
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"is_active": user.IsActive,
		}
		if user.IsBarista() {
			profile["applicationStatus"] = user.ApplicationStatus
		}
		return c.JSON(profile)
	}
}

// ============================================================================
// ADMIN HANDLERS
// ============================================================================

// AdminRegister creates an admin account. The first admin may register
// anonymously; afterwards an admin session is required.
func AdminRegister(store database.AdminStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		role, _ := c.Locals(LocalRole).(string)
		bootstrap := role != model.RoleAdmin

		if bootstrap {
			count, err := store.CountAdmins(ctx)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to count admins"})
			}
			if count > 0 {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Only admins can register admins"})
			}
		}

		var req AdminRegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
		if req.Username == "" || model.NormalizeEmail(req.Email) == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "All fields are required."})
		}
		if err := ValidateEmail(req.Email); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		if err := ValidatePasswordStrength(req.Password); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		passwordHash, err := HashPassword(req.Password)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to hash password"})
		}

		admin := model.NewAdmin(req.Username, req.Email, passwordHash)
		if bootstrap {
			// CountAdmins above only rejects early; the insert itself decides.
			var created bool
			created, err = store.CreateFirstAdmin(ctx, admin)
			if err == nil && !created {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Only admins can register admins"})
			}
		} else {
			err = store.CreateAdmin(ctx, admin)
		}
		if err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email is already in use"})
			}
			logger.Sugar().Errorf("Failed to create admin %s: %v", admin.Email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create admin"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Admin registered successfully",
			"admin": fiber.Map{
				"username": admin.Username,
				"email":    admin.Email,
			},
		})
	}
}

// AdminLogin authenticates an admin and sets the auth cookie
func AdminLogin(store database.AdminStore, limiter LoginLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		email := model.NormalizeEmail(req.Email)
		if email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email and password are required"})
		}

		ctx := c.UserContext()
		if loginBlocked(ctx, limiter, email) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many failed login attempts, try again later"})
		}

		admin, err := store.GetAdminByEmail(ctx, email)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			logger.Sugar().Errorf("Failed to fetch admin %s: %v", email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch admin"})
		}
		if err != nil || !CheckPasswordHash(req.Password, admin.Password) {
			recordLoginFailure(ctx, limiter, email)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}

		resetLoginFailures(ctx, limiter, email)

		token, err := GenerateJWT(admin.Key, admin.Email, model.RoleAdmin)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate token"})
		}

		SetAuthCookie(c, token)

		return c.JSON(fiber.Map{
			"message":  "Login successful",
			"username": admin.Username,
			"email":    admin.Email,
			"role":     model.RoleAdmin,
		})
	}
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// SetAuthCookie sets the authentication cookie for a user session.
func SetAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   int(jwtExpiration.Seconds()),
		Path:     "/",
	})
}

// loginBlocked fails open when the limiter backend is unreachable.
func loginBlocked(ctx context.Context, limiter LoginLimiter, email string) bool {
	if limiter == nil {
		return false
	}
	err := limiter.CheckLogin(ctx, email)
	if errors.Is(err, rate.ErrRateLimited) {
		return true
	}
	if err != nil {
		logger.Warn("login limiter unavailable", zap.String("email", email), zap.Error(err))
	}
	return false
}

func recordLoginFailure(ctx context.Context, limiter LoginLimiter, email string) {
	if limiter == nil {
		return
	}
	if err := limiter.RecordFailure(ctx, email); err != nil {
		logger.Warn("failed to record login failure", zap.String("email", email), zap.Error(err))
	}
}

func resetLoginFailures(ctx context.Context, limiter LoginLimiter, email string) {
	if limiter == nil {
		return
	}
	if err := limiter.Reset(ctx, email); err != nil {
		logger.Warn("failed to reset login failures", zap.String("email", email), zap.Error(err))
	}
}
