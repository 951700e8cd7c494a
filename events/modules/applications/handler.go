// Package application handles Kafka event processing for application review events.
package application

import (
	"context"
	"encoding/json"
	"fmt"
)

// Notifier delivers a review decision to the barista.
type Notifier interface {
	NotifyApplicationReviewed(ctx context.Context, event ApplicationReviewedEvent) error
}

// HandleApplicationReviewed processes an application review event from Kafka.
func HandleApplicationReviewed(ctx context.Context, msg []byte, notifier Notifier) error {
	var event ApplicationReviewedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("failed to unmarshal ApplicationReviewedEvent: %w", err)
	}

	if event.EventType != ReviewedEventType {
		return fmt.Errorf("unexpected event type %q", event.EventType)
	}
	if event.Email == "" || !event.Decision.IsSet() {
		return fmt.Errorf("invalid event %s: missing required fields", event.EventID)
	}
	if event.Decision.CanReview() || !event.Decision.IsKnown() {
		return fmt.Errorf("invalid event %s: decision %q is not a review outcome", event.EventID, event.Decision)
	}

	logger.Sugar().Infof("Processing review %s for %s (%s)", event.EventID, event.Email, event.Decision)

	if err := notifier.NotifyApplicationReviewed(ctx, event); err != nil {
		return fmt.Errorf("notify %s: %w", event.Email, err)
	}

	logger.Sugar().Infof("Successfully processed review %s", event.EventID)
	return nil
}
