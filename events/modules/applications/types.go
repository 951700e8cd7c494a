// Package application defines the Kafka events emitted when an admin reviews a barista application.
package application

import (
	"time"

	"github.com/baristahub/baristahub-backend/model"
)

// Event contract constants
const (
	ReviewedEventType = "barista.application.reviewed"
	SchemaVersion     = "v1"
	DefaultTopic      = "application-events"
)

// ApplicationReviewedEvent represents a review decision published to Kafka.
type ApplicationReviewedEvent struct {
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EventTime     time.Time `json:"event_time"`
	SchemaVersion string    `json:"schema_version"`

	UserKey  string                  `json:"user_key"`
	Email    string                  `json:"email"`
	Username string                  `json:"username"`
	Decision model.ApplicationStatus `json:"decision"`
	Note     string                  `json:"note,omitempty"`

	// Admin email that made the decision
	ReviewedBy string `json:"reviewed_by,omitempty"`
}
