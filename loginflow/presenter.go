package loginflow

import (
	"context"

	"github.com/baristahub/baristahub-backend/model"
)

// Routes the flow can navigate to
const (
	LandingRoute           = "/"
	ProfileCompletionRoute = "/ProfileAuth"
)

// AlertKind selects the alert styling
type AlertKind int

// Alert kinds
const (
	AlertInfo AlertKind = iota
	AlertError
)

func (k AlertKind) String() string {
	if k == AlertError {
		return "error"
	}
	return "info"
}

// Alert is a modal notification
type Alert struct {
	Kind  AlertKind
	Title string
	Text  string
}

// Presenter renders the user-visible effects of a submission.
type Presenter interface {
	ShowFormError(message string)
	ShowAlert(alert Alert)
	Navigate(route string)
}

// Transport performs the two network calls. LookupStatus must reuse the
// session established by Authenticate.
type Transport interface {
	Authenticate(ctx context.Context, creds Credentials) error
	LookupStatus(ctx context.Context) (model.ApplicationStatus, error)
}
