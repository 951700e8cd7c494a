package applications

import (
	"errors"
	"strings"
	"time"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/baristahub/baristahub-backend/restapi/modules/auth"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var logger = database.InitLogger()

// Status returns the application status of the logged-in barista.
// A barista who never submitted a profile gets {"applicationStatus": null}.
func Status(store database.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := store.GetUserByKey(c.UserContext(), auth.Subject(c))
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Barista not found"})
			}
			logger.Sugar().Errorf("Failed to fetch application status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch application status"})
		}
		if !user.IsBarista() {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Barista not found"})
		}

		return c.JSON(StatusResponse{ApplicationStatus: user.ApplicationStatus})
	}
}

// SubmitProfile stores the barista profile and moves the application to pending
func SubmitProfile(store database.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		req.FullName = strings.TrimSpace(req.FullName)
		req.Phone = strings.TrimSpace(req.Phone)
		if req.FullName == "" || req.Phone == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "All fields are required."})
		}
		if req.ExperienceYears < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Experience cannot be negative"})
		}

		app := model.Application{
			FullName:        req.FullName,
			Phone:           req.Phone,
			ExperienceYears: req.ExperienceYears,
			Bio:             strings.TrimSpace(req.Bio),
			SubmittedAt:     time.Now().UTC(),
		}

		user, err := store.SubmitApplication(c.UserContext(), auth.Subject(c), app)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Barista not found"})
		case errors.Is(err, database.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Application is already under review or accepted"})
		case err != nil:
			logger.Sugar().Errorf("Failed to submit application: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to submit application"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":           "Application submitted",
			"applicationStatus": user.ApplicationStatus,
		})
	}
}

// ListApplications lists baristas, optionally filtered by ?status=pending|Accept|Reject|null
func ListApplications(store database.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter *model.ApplicationStatus
		if raw := c.Query("status"); raw != "" {
			status, err := model.ParseStatusFilter(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status filter '" + raw + "'"})
			}
			filter = &status
		}

		users, err := store.ListBaristas(c.UserContext(), filter)
		if err != nil {
			logger.Sugar().Errorf("Failed to list applications: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to list applications"})
		}

		views := make([]ApplicationView, 0, len(users))
		for _, user := range users {
			views = append(views, NewApplicationView(user))
		}
		return c.JSON(fiber.Map{
			"applications": views,
			"count":        len(views),
		})
	}
}

// Review records an admin decision on a pending application and publishes a review event
func Review(store database.UserStore, publisher EventPublisher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}

		decision, err := model.ParseDecision(req.Decision)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}

		reviewer, _ := c.Locals(auth.LocalEmail).(string)
		review := model.Review{
			Decision:   decision,
			ReviewedBy: reviewer,
			Note:       strings.TrimSpace(req.Note),
			At:         time.Now().UTC(),
		}

		ctx := c.UserContext()
		user, err := store.ReviewApplication(ctx, c.Params("key"), review)
		switch {
		case errors.Is(err, database.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Application not found"})
		case errors.Is(err, database.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Only pending applications can be reviewed"})
		case err != nil:
			logger.Sugar().Errorf("Failed to review application %s: %v", c.Params("key"), err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to review application"})
		}

		// The decision is committed; a lost event only costs the notification email.
		if publisher != nil {
			if err := publisher.PublishApplicationReviewed(ctx, user, review); err != nil {
				logger.Warn("failed to publish review event",
					zap.String("key", user.Key),
					zap.String("decision", decision.String()),
					zap.Error(err))
			}
		}

		return c.JSON(fiber.Map{
			"message":     "Application reviewed",
			"application": NewApplicationView(user),
		})
	}
}
