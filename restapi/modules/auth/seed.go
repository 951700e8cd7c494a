// Package auth provides YAML-driven admin bootstrap.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"gopkg.in/yaml.v2"
)

// AdminSeed represents the YAML structure of the admin seed file
type AdminSeed struct {
	Admins []SeedAdmin `yaml:"admins"`
}

// SeedAdmin represents one admin in the seed file
type SeedAdmin struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// SeedResult tracks the outcome of a seed run
type SeedResult struct {
	Created []string
	Skipped []string
}

// LoadAdminSeed reads and validates the seed file
func LoadAdminSeed(path string) (*AdminSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed AdminSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSeed(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	return &seed, nil
}

func validateSeed(seed *AdminSeed) error {
	seenEmails := make(map[string]bool)

	for i, admin := range seed.Admins {
		email := model.NormalizeEmail(admin.Email)
		if admin.Username == "" {
			return fmt.Errorf("username is required for admin #%d", i+1)
		}
		if email == "" {
			return fmt.Errorf("email is required for admin %s", admin.Username)
		}
		if err := ValidateEmail(admin.Email); err != nil {
			return fmt.Errorf("admin %s: %w", admin.Username, err)
		}
		if err := ValidatePasswordStrength(admin.Password); err != nil {
			return fmt.Errorf("admin %s: %w", admin.Username, err)
		}
		if seenEmails[email] {
			return fmt.Errorf("duplicate email: %s", email)
		}
		seenEmails[email] = true
	}
	return nil
}

// SeedAdmins creates the admins that do not exist yet. Existing emails are skipped.
func SeedAdmins(ctx context.Context, store database.AdminStore, seed *AdminSeed) (*SeedResult, error) {
	result := &SeedResult{
		Created: []string{},
		Skipped: []string{},
	}

	for _, entry := range seed.Admins {
		hash, err := HashPassword(entry.Password)
		if err != nil {
			return result, fmt.Errorf("hash password for %s: %w", entry.Email, err)
		}

		admin := model.NewAdmin(entry.Username, entry.Email, hash)
		err = store.CreateAdmin(ctx, admin)
		switch {
		case err == nil:
			result.Created = append(result.Created, admin.Email)
		case errors.Is(err, database.ErrEmailTaken):
			result.Skipped = append(result.Skipped, admin.Email)
		default:
			return result, fmt.Errorf("create admin %s: %w", admin.Email, err)
		}
	}

	logger.Sugar().Infof("Admin seed complete. Created: %v, Skipped: %v", result.Created, result.Skipped)
	return result, nil
}
