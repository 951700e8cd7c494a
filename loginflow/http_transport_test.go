package loginflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baristahub/baristahub-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAPI mimics the two endpoints: login sets a session cookie, status requires it.
func fakeAPI(t *testing.T, statusBody string, statusCode int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPath, func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch creds.Password {
		case "correct-horse":
			http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "session-1", Path: "/", HttpOnly: true})
			_, _ = w.Write([]byte(`{"message":"Login successful"}`))
		case "legacy":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Account locked"}`))
		case "html":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`<html>proxy</html>`))
		case "bare":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
		}
	})
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("auth_token"); err != nil || cookie.Value != "session-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Authentication required"}`))
			return
		}
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(statusBody))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTransport(t *testing.T, server *httptest.Server) *HTTPTransport {
	t.Helper()
	transport, err := NewHTTPTransport(server.URL+"/", nil)
	require.NoError(t, err)
	t.Cleanup(transport.client.CloseIdleConnections)
	return transport
}

func TestHTTPTransportSessionCarriesToStatus(t *testing.T) {
	for body, want := range map[string]model.ApplicationStatus{
		`{"applicationStatus":"Accept"}`:  model.StatusAccepted,
		`{"applicationStatus":"pending"}`: model.StatusPending,
		`{"applicationStatus":null}`:      model.StatusUnset,
		`{}`:                              model.StatusUnset,
		`{"applicationStatus":"weird"}`:   model.StatusOf("weird"),
		`{"applicationStatus":""}`:        model.StatusOf(""),
		`{"applicationStatus":42}`:        model.StatusOf("42"),
	} {
		t.Run(body, func(t *testing.T) {
			transport := newTransport(t, fakeAPI(t, body, http.StatusOK))
			ctx := context.Background()

			require.NoError(t, transport.Authenticate(ctx, Credentials{Email: "bea@example.com", Password: "correct-horse"}))
			status, err := transport.LookupStatus(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, status)
		})
	}
}

func TestHTTPTransportStatusWithoutSession(t *testing.T) {
	transport := newTransport(t, fakeAPI(t, `{"applicationStatus":"Accept"}`, http.StatusOK))

	_, err := transport.LookupStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Authentication required")
	assert.False(t, errors.Is(err, ErrStatusNotFound))
}

func TestHTTPTransportStatusErrors(t *testing.T) {
	ctx := context.Background()
	login := Credentials{Email: "bea@example.com", Password: "correct-horse"}

	transport := newTransport(t, fakeAPI(t, `{"message":"Barista not found"}`, http.StatusNotFound))
	require.NoError(t, transport.Authenticate(ctx, login))
	_, err := transport.LookupStatus(ctx)
	assert.ErrorIs(t, err, ErrStatusNotFound)

	transport = newTransport(t, fakeAPI(t, `not json`, http.StatusOK))
	require.NoError(t, transport.Authenticate(ctx, login))
	_, err = transport.LookupStatus(ctx)
	assert.ErrorContains(t, err, "malformed status response")
}

func TestHTTPTransportAuthenticateErrors(t *testing.T) {
	transport := newTransport(t, fakeAPI(t, `{}`, http.StatusOK))

	tests := []struct {
		password string
		status   int
		display  string
	}{
		{"wrong", http.StatusUnauthorized, "Invalid credentials"},
		{"legacy", http.StatusUnauthorized, "Account locked"},
		{"bare", http.StatusBadGateway, "Request failed with status code 502"},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := transport.Authenticate(context.Background(), Credentials{Email: "bea@example.com", Password: tt.password})
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.status, authErr.StatusCode)
			assert.Equal(t, tt.display, authErr.DisplayMessage())
		})
	}

	err := transport.Authenticate(context.Background(), Credentials{Email: "bea@example.com", Password: "html"})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.DisplayMessage(), "malformed login response")
}

func TestHTTPTransportUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	transport, err := NewHTTPTransport(url, nil)
	require.NoError(t, err)

	err = transport.Authenticate(context.Background(), Credentials{Email: "bea@example.com", Password: "correct-horse"})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Zero(t, authErr.StatusCode)
	assert.NotEmpty(t, authErr.DisplayMessage())
}

func TestNewHTTPTransportRequiresJar(t *testing.T) {
	_, err := NewHTTPTransport("http://localhost", &http.Client{})
	assert.Error(t, err)
}

func TestFlowOverHTTP(t *testing.T) {
	transport := newTransport(t, fakeAPI(t, `{"applicationStatus":"Reject"}`, http.StatusOK))
	presenter := &recordingPresenter{}
	flow := New(transport, presenter, WithLogger(zap.NewNop()))

	outcome, err := flow.Submit(context.Background(), Credentials{Email: "bea@example.com", Password: "nope"})
	require.NoError(t, err)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, "Error logging in: Invalid credentials", presenter.alerts[0].Text)

	outcome, err = flow.Submit(context.Background(), Credentials{Email: "bea@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, StateRejected, outcome.State)
	assert.Equal(t, "Application Rejected", presenter.alerts[1].Title)
	assert.Empty(t, presenter.navigations)
}

func TestFlowOverHTTPOutOfContractStatus(t *testing.T) {
	for _, body := range []string{
		`{"applicationStatus":""}`,
		`{"applicationStatus":42}`,
		`{"applicationStatus":{"s":"Accept"}}`,
	} {
		t.Run(body, func(t *testing.T) {
			transport := newTransport(t, fakeAPI(t, body, http.StatusOK))
			presenter := &recordingPresenter{}
			flow := New(transport, presenter, WithLogger(zap.NewNop()))

			outcome, err := flow.Submit(context.Background(), Credentials{Email: "bea@example.com", Password: "correct-horse"})
			require.NoError(t, err)
			assert.Equal(t, StateUnknown, outcome.State)
			var unmapped *UnmappedStatusError
			assert.ErrorAs(t, outcome.Err, &unmapped)
			assert.Empty(t, presenter.navigations)
			assert.Empty(t, presenter.alerts)
		})
	}
}
