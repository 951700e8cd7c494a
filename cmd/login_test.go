package cmd

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/internal/api"
	"github.com/baristahub/baristahub-backend/internal/config"
	"github.com/baristahub/baristahub-backend/loginflow"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/baristahub/baristahub-backend/restapi"
	"github.com/baristahub/baristahub-backend/restapi/modules/auth"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalPresenter(t *testing.T) {
	var out bytes.Buffer
	p := terminalPresenter{out: &out}

	p.ShowFormError(loginflow.MissingFieldMessage)
	p.ShowAlert(loginflow.PendingAlert)
	p.Navigate(loginflow.ProfileCompletionRoute)

	text := out.String()
	assert.Contains(t, text, loginflow.MissingFieldMessage)
	assert.Contains(t, text, loginflow.PendingAlert.Title)
	assert.Contains(t, text, "complete your barista profile")
}

func TestParseFailurePolicy(t *testing.T) {
	policy, err := parseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, loginflow.FailureAsUnset, policy)

	policy, err = parseFailurePolicy("ERROR")
	require.NoError(t, err)
	assert.Equal(t, loginflow.FailureAsError, policy)

	_, err = parseFailurePolicy("retry")
	assert.Error(t, err)
}

func TestPromptCredentials(t *testing.T) {
	var prompt bytes.Buffer
	creds, err := promptCredentials(strings.NewReader("bea@example.com\r\nsecret pass\n"), &prompt, "")
	require.NoError(t, err)
	assert.Equal(t, "bea@example.com", creds.Email)
	assert.Equal(t, "secret pass", creds.Password)
	assert.Contains(t, prompt.String(), "Email: ")

	creds, err = promptCredentials(strings.NewReader("last-line-no-newline"), &prompt, "flag@example.com")
	require.NoError(t, err)
	assert.Equal(t, "flag@example.com", creds.Email)
	assert.Equal(t, "last-line-no-newline", creds.Password)

	creds, err = promptCredentials(strings.NewReader(""), &prompt, "flag@example.com")
	require.NoError(t, err)
	assert.Empty(t, creds.Password)
}

func TestLoginCommand(t *testing.T) {
	auth.SetJWTSecret("cmd-test-secret")
	store := database.NewMemoryStore()
	app, err := api.NewFiberApp(restapi.Deps{Store: store}, api.Options{DisableAccessLog: true})
	require.NoError(t, err)
	server := httptest.NewServer(adaptor.FiberApp(app))
	defer server.Close()

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	user := model.NewUser("bea", "bea@example.com", model.RoleBarista)
	user.PasswordHash = hash
	require.NoError(t, store.CreateUser(t.Context(), user))

	run := func(password string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetArgs([]string{"login", "--" + config.APIURLKey, server.URL, "--email", "bea@example.com"})
		rootCmd.SetIn(strings.NewReader(password + "\n"))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&bytes.Buffer{})
		err := Execute()
		return out.String(), err
	}

	out, err := run("correct-horse")
	require.NoError(t, err)
	assert.Contains(t, out, loginflow.ProfileCompletionRoute)

	out, err = run("wrong-horse")
	require.Error(t, err)
	assert.Contains(t, out, "Invalid credentials")
}
