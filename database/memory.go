package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/baristahub/baristahub-backend/model"
	"github.com/google/uuid"
)

// MemoryStore is a process-local Store used for development (STORE_BACKEND=memory)
// and handler tests. It mirrors the unique email indexes of the Arango schema.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]*model.User
	userEmails  map[string]string
	admins      map[string]*model.Admin
	adminEmails map[string]string
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]*model.User),
		userEmails:  make(map[string]string),
		admins:      make(map[string]*model.Admin),
		adminEmails: make(map[string]string),
	}
}

// CreateUser stores a copy of user and assigns its key
func (m *MemoryStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := model.NormalizeEmail(user.Email)
	if _, taken := m.userEmails[email]; taken {
		return ErrEmailTaken
	}
	if user.Key == "" {
		user.Key = uuid.NewString()
	}
	user.Email = email
	stored := *user
	m.users[user.Key] = &stored
	m.userEmails[email] = user.Key
	return nil
}

// GetUserByEmail returns a copy of the matching user
func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.userEmails[model.NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(m.users[key]), nil
}

// GetUserByKey returns a copy of the user stored under key
func (m *MemoryStore) GetUserByKey(_ context.Context, key string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[key]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

// ListBaristas returns baristas ordered by registration time
func (m *MemoryStore) ListBaristas(_ context.Context, status *model.ApplicationStatus) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := []*model.User{}
	for _, user := range m.users {
		if !user.IsBarista() {
			continue
		}
		if status != nil && user.ApplicationStatus != *status {
			continue
		}
		users = append(users, copyUser(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// SubmitApplication moves an unset or rejected barista to pending
func (m *MemoryStore) SubmitApplication(_ context.Context, key string, app model.Application) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.barista(key)
	if err != nil {
		return nil, err
	}
	if !user.ApplicationStatus.CanSubmit() {
		return nil, fmt.Errorf("%w: application is %s", ErrInvalidTransition, user.ApplicationStatus.Kind())
	}

	submitted := app
	user.Application = &submitted
	user.ApplicationStatus = model.StatusPending
	user.UpdatedAt = time.Now().UTC()
	return copyUser(user), nil
}

// ReviewApplication records an admin decision on a pending application
func (m *MemoryStore) ReviewApplication(_ context.Context, key string, review model.Review) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.barista(key)
	if err != nil {
		return nil, err
	}
	if !user.ApplicationStatus.CanReview() {
		return nil, fmt.Errorf("%w: application is %s", ErrInvalidTransition, user.ApplicationStatus.Kind())
	}

	app := model.Application{}
	if user.Application != nil {
		app = *user.Application
	}
	at := review.At
	app.ReviewedAt = &at
	app.ReviewedBy = review.ReviewedBy
	app.ReviewNote = review.Note

	user.Application = &app
	user.ApplicationStatus = review.Decision
	user.UpdatedAt = review.At
	return copyUser(user), nil
}

func (m *MemoryStore) barista(key string) (*model.User, error) {
	user, ok := m.users[key]
	if !ok || !user.IsBarista() {
		return nil, ErrNotFound
	}
	return user, nil
}

// CreateAdmin stores a copy of admin and assigns its key
func (m *MemoryStore) CreateAdmin(_ context.Context, admin *model.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := model.NormalizeEmail(admin.Email)
	if _, taken := m.adminEmails[email]; taken {
		return ErrEmailTaken
	}
	if admin.Key == "" {
		admin.Key = uuid.NewString()
	}
	admin.Email = email
	stored := *admin
	m.admins[admin.Key] = &stored
	m.adminEmails[email] = admin.Key
	return nil
}

// CreateFirstAdmin stores admin only while the admin table is empty
func (m *MemoryStore) CreateFirstAdmin(_ context.Context, admin *model.Admin) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.admins) > 0 {
		return false, nil
	}
	if admin.Key == "" {
		admin.Key = uuid.NewString()
	}
	admin.Email = model.NormalizeEmail(admin.Email)
	stored := *admin
	m.admins[admin.Key] = &stored
	m.adminEmails[admin.Email] = admin.Key
	return true, nil
}

// GetAdminByEmail returns a copy of the matching admin
func (m *MemoryStore) GetAdminByEmail(_ context.Context, email string) (*model.Admin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.adminEmails[model.NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	admin := *m.admins[key]
	return &admin, nil
}

// CountAdmins returns the number of admin accounts
func (m *MemoryStore) CountAdmins(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.admins), nil
}

func copyUser(u *model.User) *model.User {
	c := *u
	if u.Application != nil {
		app := *u.Application
		c.Application = &app
	}
	return &c
}
