// Package loginflow implements the barista login flow: credential submission
// followed by an application status lookup that decides where the user goes next.
package loginflow

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/baristahub/baristahub-backend/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each of the two calls
const DefaultTimeout = 10 * time.Second

// FailurePolicy decides what a failed status lookup does
type FailurePolicy int

const (
	// FailureAsUnset routes to profile completion, the same as a missing status.
	FailureAsUnset FailurePolicy = iota
	// FailureAsError shows an error alert and stays put.
	FailureAsError
)

// Outcome describes one finished submission
type Outcome struct {
	RequestID string
	State     State
	Status    model.ApplicationStatus
	Route     string
	Alert     *Alert
	// Err is the failure behind the outcome, nil on a clean pass.
	Err error
}

// Flow runs submissions against a Transport and renders them on a Presenter.
// At most one submission runs at a time.
type Flow struct {
	transport Transport
	presenter Presenter
	timeout   time.Duration
	policy    FailurePolicy
	log       *zap.Logger

	inFlight atomic.Bool
}

// Option configures a Flow
type Option func(*Flow)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithFailurePolicy overrides FailureAsUnset
func WithFailurePolicy(p FailurePolicy) Option {
	return func(f *Flow) { f.policy = p }
}

// WithLogger sets the logger. Flows log nothing by default.
func WithLogger(l *zap.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.log = l
		}
	}
}

// New creates a Flow
func New(transport Transport, presenter Presenter, opts ...Option) *Flow {
	f := &Flow{
		transport: transport,
		presenter: presenter,
		timeout:   DefaultTimeout,
		policy:    FailureAsUnset,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// authenticated can only be obtained from a successful authenticate call,
// so resolveStatus cannot run before the login succeeded.
type authenticated struct {
	requestID string
}

// Submit runs one submission and renders its outcome. The returned error is
// ErrSubmissionInFlight when another submission is running, in which case
// nothing was sent or shown. Flow failures are reported in Outcome.Err.
func (f *Flow) Submit(ctx context.Context, creds Credentials) (Outcome, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return Outcome{State: StateIdle}, ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	requestID := uuid.NewString()
	log := f.log.With(zap.String("request_id", requestID))

	if err := creds.Validate(); err != nil {
		f.presenter.ShowFormError(MissingFieldMessage)
		return Outcome{RequestID: requestID, State: StateFailed, Err: err}, nil
	}

	session, authErr := f.authenticate(ctx, requestID, creds)
	if authErr != nil {
		alert := LoginErrorAlert(authErr)
		log.Info("login failed", zap.Int("status_code", authErr.StatusCode), zap.String("message", authErr.DisplayMessage()))
		f.presenter.ShowAlert(alert)
		return Outcome{RequestID: requestID, State: StateFailed, Alert: &alert, Err: authErr}, nil
	}

	outcome := f.resolveStatus(ctx, session, log)
	f.render(outcome)
	return outcome, nil
}

// InFlight reports whether a submission is running
func (f *Flow) InFlight() bool {
	return f.inFlight.Load()
}

func (f *Flow) authenticate(ctx context.Context, requestID string, creds Credentials) (authenticated, *AuthError) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.transport.Authenticate(callCtx, creds); err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return authenticated{}, authErr
		}
		return authenticated{}, &AuthError{Err: err}
	}
	return authenticated{requestID: requestID}, nil
}

func (f *Flow) resolveStatus(ctx context.Context, session authenticated, log *zap.Logger) Outcome {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	status, err := f.transport.LookupStatus(callCtx)
	if err != nil {
		lookupErr := &StatusLookupError{Err: err}
		log.Warn("status lookup failed", zap.Bool("not_found", lookupErr.NotFound()), zap.Error(err))

		if f.policy == FailureAsError {
			alert := LookupErrorAlert(lookupErr)
			return Outcome{RequestID: session.requestID, State: StateFailed, Alert: &alert, Err: lookupErr}
		}
		return Outcome{RequestID: session.requestID, State: StateUnset, Route: ProfileCompletionRoute, Err: lookupErr}
	}

	decision := Resolve(status)
	outcome := Outcome{
		RequestID: session.requestID,
		State:     decision.State,
		Status:    status,
		Route:     decision.Route,
		Alert:     decision.Alert,
	}
	if decision.State == StateUnknown {
		outcome.Err = &UnmappedStatusError{Raw: status.String()}
		log.Warn("unmapped application status", zap.String("status", status.String()))
	}
	return outcome
}

func (f *Flow) render(outcome Outcome) {
	if outcome.Alert != nil {
		f.presenter.ShowAlert(*outcome.Alert)
	}
	if outcome.Route != "" {
		f.presenter.Navigate(outcome.Route)
	}
}
