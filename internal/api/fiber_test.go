package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/loginflow"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/baristahub/baristahub-backend/restapi"
	"github.com/baristahub/baristahub-backend/restapi/modules/auth"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type screen struct {
	alerts      []loginflow.Alert
	navigations []string
	formErrors  []string
}

func (s *screen) ShowFormError(message string)   { s.formErrors = append(s.formErrors, message) }
func (s *screen) ShowAlert(alert loginflow.Alert) { s.alerts = append(s.alerts, alert) }
func (s *screen) Navigate(route string)           { s.navigations = append(s.navigations, route) }

func startServer(t *testing.T) (*httptest.Server, *database.MemoryStore) {
	t.Helper()
	auth.SetJWTSecret("api-test-secret")

	store := database.NewMemoryStore()
	app, err := NewFiberApp(restapi.Deps{Store: store}, Options{DisableAccessLog: true})
	require.NoError(t, err)

	server := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(server.Close)
	return server, store
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndNotFound(t *testing.T) {
	server, _ := startServer(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(server.URL + "/api/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(missing.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}

func TestLoginFlowAgainstAPI(t *testing.T) {
	server, store := startServer(t)
	ctx := context.Background()

	resp := postJSON(t, server.URL+"/api/users/register", auth.RegisterRequest{
		Username: "bea", Email: "bea@example.com", Password: "correct-horse", Role: model.RoleBarista,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postJSON(t, server.URL+"/api/users/register", auth.RegisterRequest{
		Username: "cass", Email: "cass@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user, err := store.GetUserByEmail(ctx, "bea@example.com")
	require.NoError(t, err)

	submit := func(creds loginflow.Credentials) (loginflow.Outcome, *screen) {
		transport, err := loginflow.NewHTTPTransport(server.URL, nil)
		require.NoError(t, err)
		s := &screen{}
		outcome, err := loginflow.New(transport, s, loginflow.WithLogger(zap.NewNop()), loginflow.WithTimeout(5*time.Second)).Submit(ctx, creds)
		require.NoError(t, err)
		return outcome, s
	}
	bea := loginflow.Credentials{Email: "bea@example.com", Password: "correct-horse"}

	t.Run("fresh barista completes profile", func(t *testing.T) {
		outcome, s := submit(bea)
		assert.Equal(t, loginflow.StateUnset, outcome.State)
		assert.NoError(t, outcome.Err)
		assert.Equal(t, []string{loginflow.ProfileCompletionRoute}, s.navigations)
	})

	t.Run("wrong password", func(t *testing.T) {
		outcome, s := submit(loginflow.Credentials{Email: "bea@example.com", Password: "nope-nope"})
		assert.Equal(t, loginflow.StateFailed, outcome.State)
		require.Len(t, s.alerts, 1)
		assert.Equal(t, "Error logging in: Invalid credentials", s.alerts[0].Text)
	})

	t.Run("customer account", func(t *testing.T) {
		_, s := submit(loginflow.Credentials{Email: "cass@example.com", Password: "correct-horse"})
		require.Len(t, s.alerts, 1)
		assert.Equal(t, "Error logging in: This account is not registered as a barista", s.alerts[0].Text)
	})

	_, err = store.SubmitApplication(ctx, user.Key, model.Application{FullName: "Bea Brewer", Phone: "555-0100", SubmittedAt: time.Now().UTC()})
	require.NoError(t, err)

	t.Run("pending", func(t *testing.T) {
		outcome, s := submit(bea)
		assert.Equal(t, loginflow.StatePending, outcome.State)
		assert.Equal(t, []loginflow.Alert{loginflow.PendingAlert}, s.alerts)
		assert.Empty(t, s.navigations)
	})

	_, err = store.ReviewApplication(ctx, user.Key, model.Review{Decision: model.StatusAccepted, ReviewedBy: "root@example.com", At: time.Now().UTC()})
	require.NoError(t, err)

	t.Run("accepted", func(t *testing.T) {
		outcome, s := submit(bea)
		assert.Equal(t, loginflow.StateAccepted, outcome.State)
		assert.Equal(t, []string{loginflow.LandingRoute}, s.navigations)
		assert.Empty(t, s.alerts)
	})
}
