package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "admins.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAdminSeed(t *testing.T) {
	path := writeSeed(t, `
admins:
  - username: root
    email: Root@Example.com
    password: correct-horse
  - username: ops
    email: ops@example.com
    password: battery-staple
`)
	seed, err := LoadAdminSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Admins, 2)
	assert.Equal(t, "root", seed.Admins[0].Username)
}

func TestLoadAdminSeedInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing username", "admins:\n  - email: a@example.com\n    password: correct-horse\n"},
		{"missing email", "admins:\n  - username: a\n    password: correct-horse\n"},
		{"malformed email", "admins:\n  - username: a\n    email: not-an-address\n    password: correct-horse\n"},
		{"weak password", "admins:\n  - username: a\n    email: a@example.com\n    password: short\n"},
		{"duplicate email", "admins:\n  - username: a\n    email: a@example.com\n    password: correct-horse\n  - username: b\n    email: A@example.com\n    password: correct-horse\n"},
		{"bad yaml", "admins: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAdminSeed(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadAdminSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSeedAdminsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.CreateAdmin(ctx, model.NewAdmin("existing", "ops@example.com", "hash")))

	seed := &AdminSeed{Admins: []SeedAdmin{
		{Username: "root", Email: "root@example.com", Password: "correct-horse"},
		{Username: "ops", Email: "ops@example.com", Password: "correct-horse"},
	}}

	result, err := SeedAdmins(ctx, store, seed)
	require.NoError(t, err)
	assert.Equal(t, []string{"root@example.com"}, result.Created)
	assert.Equal(t, []string{"ops@example.com"}, result.Skipped)

	result, err = SeedAdmins(ctx, store, seed)
	require.NoError(t, err)
	assert.Empty(t, result.Created)
	assert.Len(t, result.Skipped, 2)

	admin, err := store.GetAdminByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct-horse", admin.Password))
}
