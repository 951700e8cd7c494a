package database

import (
	"context"
	"fmt"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/baristahub/baristahub-backend/model"
)

// ArangoStore implements Store on top of the users and admins collections
type ArangoStore struct {
	db DBConnection
}

// NewArangoStore wraps an initialized connection
func NewArangoStore(db DBConnection) *ArangoStore {
	return &ArangoStore{db: db}
}

// CreateUser inserts a new account. A clash on the unique email index is
// reported as ErrEmailTaken.
func (s *ArangoStore) CreateUser(ctx context.Context, user *model.User) error {
	meta, err := s.db.Collections[UsersCollection].CreateDocument(ctx, user)
	if err != nil {
		if shared.IsConflict(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	user.Key = meta.Key
	return nil
}

// GetUserByEmail looks up an account by normalized email
func (s *ArangoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		FOR u IN users
			FILTER u.email == @email
			LIMIT 1
			RETURN u
	`
	var user model.User
	found, err := s.readOne(ctx, query, map[string]interface{}{"email": model.NormalizeEmail(email)}, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &user, nil
}

// GetUserByKey reads an account by document key
func (s *ArangoStore) GetUserByKey(ctx context.Context, key string) (*model.User, error) {
	var user model.User
	if _, err := s.db.Collections[UsersCollection].ReadDocument(ctx, key, &user); err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read user %s: %w", key, err)
	}
	return &user, nil
}

// ListBaristas returns baristas ordered by registration time
func (s *ArangoStore) ListBaristas(ctx context.Context, status *model.ApplicationStatus) ([]*model.User, error) {
	query := `
		FOR u IN users
			FILTER u.role == @role
			FILTER @all || u.application_status == @status
			SORT u.created_at ASC
			RETURN u
	`
	bindVars := map[string]interface{}{
		"role":   model.RoleBarista,
		"all":    status == nil,
		"status": nil,
	}
	if status != nil {
		bindVars["status"] = status.BindValue()
	}

	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, fmt.Errorf("list baristas: %w", err)
	}
	defer cursor.Close()

	users := []*model.User{}
	for cursor.HasMore() {
		var user model.User
		if _, err := cursor.ReadDocument(ctx, &user); err != nil {
			return nil, fmt.Errorf("read barista: %w", err)
		}
		users = append(users, &user)
	}
	return users, nil
}

// SubmitApplication moves an unset or rejected barista to pending in a single
// conditional update, so two concurrent submissions cannot both succeed.
func (s *ArangoStore) SubmitApplication(ctx context.Context, key string, app model.Application) (*model.User, error) {
	query := `
		FOR u IN users
			FILTER u._key == @key AND u.role == @role
			FILTER u.application_status == null OR u.application_status == @rejected
			UPDATE u WITH {
				application: @application,
				application_status: @pending,
				updated_at: @now
			} IN users OPTIONS { mergeObjects: false }
			RETURN NEW
	`
	bindVars := map[string]interface{}{
		"key":         key,
		"role":        model.RoleBarista,
		"rejected":    model.StatusRejected.BindValue(),
		"pending":     model.StatusPending.BindValue(),
		"application": app,
		"now":         time.Now().UTC(),
	}
	return s.transition(ctx, key, query, bindVars)
}

// ReviewApplication records an admin decision on a pending application
func (s *ArangoStore) ReviewApplication(ctx context.Context, key string, review model.Review) (*model.User, error) {
	query := `
		FOR u IN users
			FILTER u._key == @key AND u.role == @role AND u.application_status == @pending
			UPDATE u WITH {
				application_status: @decision,
				application: MERGE(u.application, {
					reviewed_at: @at,
					reviewed_by: @by,
					review_note: @note
				}),
				updated_at: @at
			} IN users
			RETURN NEW
	`
	bindVars := map[string]interface{}{
		"key":      key,
		"role":     model.RoleBarista,
		"pending":  model.StatusPending.BindValue(),
		"decision": review.Decision.BindValue(),
		"at":       review.At,
		"by":       review.ReviewedBy,
		"note":     review.Note,
	}
	return s.transition(ctx, key, query, bindVars)
}

// transition runs a conditional UPDATE ... RETURN NEW. When nothing was
// updated it tells a missing barista apart from a refused transition.
func (s *ArangoStore) transition(ctx context.Context, key, query string, bindVars map[string]interface{}) (*model.User, error) {
	var user model.User
	found, err := s.readOne(ctx, query, bindVars, &user)
	if err != nil {
		return nil, err
	}
	if found {
		return &user, nil
	}

	existing, err := s.GetUserByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !existing.IsBarista() {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("%w: application is %s", ErrInvalidTransition, existing.ApplicationStatus.Kind())
}

// CreateAdmin inserts an admin record
func (s *ArangoStore) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	meta, err := s.db.Collections[AdminsCollection].CreateDocument(ctx, admin)
	if err != nil {
		if shared.IsConflict(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}
	admin.Key = meta.Key
	return nil
}

// CreateFirstAdmin inserts admin only when the admins collection is empty. The
// exclusive write lock is taken before LENGTH is evaluated, so concurrent
// bootstrap requests serialize and only the first one inserts.
func (s *ArangoStore) CreateFirstAdmin(ctx context.Context, admin *model.Admin) (bool, error) {
	query := `
		LET existing = LENGTH(admins)
		FILTER existing == 0
		INSERT @admin INTO admins OPTIONS { exclusive: true }
		RETURN NEW._key
	`
	var key string
	created, err := s.readOne(ctx, query, map[string]interface{}{"admin": admin}, &key)
	if err != nil {
		if shared.IsConflict(err) {
			return false, ErrEmailTaken
		}
		return false, fmt.Errorf("create first admin %s: %w", admin.Email, err)
	}
	if created {
		admin.Key = key
	}
	return created, nil
}

// GetAdminByEmail looks up an admin by normalized email
func (s *ArangoStore) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	query := `
		FOR a IN admins
			FILTER a.email == @email
			LIMIT 1
			RETURN a
	`
	var admin model.Admin
	found, err := s.readOne(ctx, query, map[string]interface{}{"email": model.NormalizeEmail(email)}, &admin)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &admin, nil
}

// CountAdmins returns the number of admin accounts
func (s *ArangoStore) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if _, err := s.readOne(ctx, `RETURN LENGTH(admins)`, nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *ArangoStore) readOne(ctx context.Context, query string, bindVars map[string]interface{}, out interface{}) (bool, error) {
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return false, nil
	}
	if _, err := cursor.ReadDocument(ctx, out); err != nil {
		return false, fmt.Errorf("read document: %w", err)
	}
	return true, nil
}
