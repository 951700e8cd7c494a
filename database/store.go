package database

import (
	"context"
	"errors"

	"github.com/baristahub/baristahub-backend/model"
)

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrEmailTaken is returned when the unique email index rejects a write.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidTransition is returned when an application is not in a state
	// that allows the requested change.
	ErrInvalidTransition = errors.New("invalid application status transition")
)

// UserStore persists customer and barista accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByKey(ctx context.Context, key string) (*model.User, error)
	// ListBaristas returns baristas in the given status, or all baristas when status is nil.
	ListBaristas(ctx context.Context, status *model.ApplicationStatus) ([]*model.User, error)
	// SubmitApplication stores the profile and moves the barista to pending.
	SubmitApplication(ctx context.Context, key string, app model.Application) (*model.User, error)
	// ReviewApplication applies an admin decision to a pending application.
	ReviewApplication(ctx context.Context, key string, review model.Review) (*model.User, error)
}

// AdminStore persists admin accounts.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	// CreateFirstAdmin inserts admin only when no admin exists yet. The check and
	// the insert are one atomic step; created is false when an admin already exists.
	CreateFirstAdmin(ctx context.Context, admin *model.Admin) (created bool, err error)
}

// Store is everything the REST API needs from persistence.
type Store interface {
	UserStore
	AdminStore
}
