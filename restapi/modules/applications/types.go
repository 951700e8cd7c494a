// Package applications provides the barista application REST handlers:
// the status lookup used by the login flow, profile submission and admin review.
package applications

import (
	"context"
	"time"

	"github.com/baristahub/baristahub-backend/model"
)

// ProfileRequest is the body a barista submits for review
type ProfileRequest struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	ExperienceYears int    `json:"experienceYears"`
	Bio             string `json:"bio"`
}

// ReviewRequest is the admin decision body
type ReviewRequest struct {
	Decision string `json:"decision"`
	Note     string `json:"note"`
}

// StatusResponse is the body of GET /api/barista-auth/status
type StatusResponse struct {
	ApplicationStatus model.ApplicationStatus `json:"applicationStatus"`
}

// ApplicationView is the admin-facing projection of a barista. It never
// carries the password hash.
type ApplicationView struct {
	Key               string                  `json:"key"`
	Username          string                  `json:"username"`
	Email             string                  `json:"email"`
	ApplicationStatus model.ApplicationStatus `json:"applicationStatus"`
	Application       *model.Application      `json:"application,omitempty"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// EventPublisher announces review decisions. A nil EventPublisher disables publishing.
type EventPublisher interface {
	PublishApplicationReviewed(ctx context.Context, user *model.User, review model.Review) error
}

// NewApplicationView projects a user document for admin listings
func NewApplicationView(user *model.User) ApplicationView {
	return ApplicationView{
		Key:               user.Key,
		Username:          user.Username,
		Email:             user.Email,
		ApplicationStatus: user.ApplicationStatus,
		Application:       user.Application,
		UpdatedAt:         user.UpdatedAt,
	}
}
