package loginflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/baristahub/baristahub-backend/model"
	"golang.org/x/net/publicsuffix"
)

// API paths used by HTTPTransport
const (
	LoginPath  = "/api/users/login/cheif"
	StatusPath = "/api/barista-auth/status"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 1 << 20

// HTTPTransport talks to the REST API. The session cookie set by the login
// response is kept in the client's cookie jar and sent with the status call.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport for baseURL. A nil client gets a fresh
// cookie jar; a caller-provided client must carry its own jar.
func NewHTTPTransport(baseURL string, client *http.Client) (*HTTPTransport, error) {
	if client == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar}
	}
	if client.Jar == nil {
		return nil, fmt.Errorf("http client has no cookie jar; the session would be lost")
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}, nil
}

// errorBody is the shape of API error responses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// Authenticate posts the credentials to the barista login endpoint
func (t *HTTPTransport) Authenticate(ctx context.Context, creds Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+LoginPath, bytes.NewReader(payload))
	if err != nil {
		return &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return &AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &AuthError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		return &AuthError{StatusCode: resp.StatusCode, Message: eb.text()}
	}

	var ok map[string]interface{}
	if err := json.Unmarshal(body, &ok); err != nil {
		return &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("malformed login response: %w", err)}
	}
	return nil
}

// LookupStatus fetches the application status for the current session.
// A 404 is reported as ErrStatusNotFound.
func (t *HTTPTransport) LookupStatus(ctx context.Context) (model.ApplicationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+StatusPath, nil)
	if err != nil {
		return model.StatusUnset, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return model.StatusUnset, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return model.StatusUnset, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return model.StatusUnset, ErrStatusNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		if msg := eb.text(); msg != "" {
			return model.StatusUnset, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}
		return model.StatusUnset, fmt.Errorf("status %d", resp.StatusCode)
	}

	var out struct {
		ApplicationStatus model.ApplicationStatus `json:"applicationStatus"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return model.StatusUnset, fmt.Errorf("malformed status response: %w", err)
	}
	return out.ApplicationStatus, nil
}
