package loginflow

import "github.com/baristahub/baristahub-backend/model"

// State is a node of the submission state machine:
// Idle -> Submitting -> {Failed, Authenticated} -> one of the status states.
type State int

// Submission states
const (
	StateIdle State = iota
	StateSubmitting
	StateFailed
	StateAuthenticated
	StatePending
	StateAccepted
	StateRejected
	StateUnset
	StateUnknown
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateSubmitting:    "submitting",
	StateFailed:        "failed",
	StateAuthenticated: "authenticated",
	StatePending:       "status_pending",
	StateAccepted:      "status_accepted",
	StateRejected:      "status_rejected",
	StateUnset:         "status_unset",
	StateUnknown:       "status_unknown",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "invalid"
}

// Terminal reports whether no further transition is defined from s
func (s State) Terminal() bool {
	return s == StateFailed || s >= StatePending
}

// Alerts shown by the flow
var (
	PendingAlert = Alert{
		Kind:  AlertInfo,
		Title: "Your application is pending",
		Text:  "Your profile is under review. You will be notified once the review is complete.",
	}
	RejectedAlert = Alert{
		Kind:  AlertError,
		Title: "Application Rejected",
		Text:  "Your application has been rejected.",
	}
)

// Decision is what the presenter should do for a status. Exactly one of
// Alert and Route is set, or neither for an unknown status.
type Decision struct {
	State State
	Alert *Alert
	Route string
}

// Resolve maps a status to its outcome. It is total and pure.
func Resolve(status model.ApplicationStatus) Decision {
	switch status.Kind() {
	case model.KindPending:
		alert := PendingAlert
		return Decision{State: StatePending, Alert: &alert}
	case model.KindAccepted:
		return Decision{State: StateAccepted, Route: LandingRoute}
	case model.KindRejected:
		alert := RejectedAlert
		return Decision{State: StateRejected, Alert: &alert}
	case model.KindUnset:
		return Decision{State: StateUnset, Route: ProfileCompletionRoute}
	default:
		return Decision{State: StateUnknown}
	}
}

// LoginErrorAlert is the alert for a failed authenticate call
func LoginErrorAlert(err *AuthError) Alert {
	return Alert{
		Kind:  AlertError,
		Title: "Login Error",
		Text:  "Error logging in: " + err.DisplayMessage(),
	}
}

// LookupErrorAlert is shown under FailureAsError when the status call fails
func LookupErrorAlert(err *StatusLookupError) Alert {
	return Alert{
		Kind:  AlertError,
		Title: "Status Unavailable",
		Text:  "Could not load your application status: " + err.Err.Error(),
	}
}
