// Package application handles Kafka event production for application review events.
package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baristahub/baristahub-backend/database"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var logger = database.InitLogger()

// ApplicationProducer sends review events to Kafka
type ApplicationProducer struct {
	Writer *kafka.Writer
}

// NewApplicationProducer initializes a new Kafka writer for application events
func NewApplicationProducer(brokers []string, topic string) *ApplicationProducer {
	return &ApplicationProducer{
		Writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
	}
}

// NewApplicationReviewedEvent builds the event contract for a committed review
func NewApplicationReviewedEvent(user *model.User, review model.Review) ApplicationReviewedEvent {
	eventTime := review.At
	if eventTime.IsZero() {
		eventTime = time.Now().UTC()
	}
	return ApplicationReviewedEvent{
		EventType:     ReviewedEventType,
		EventID:       uuid.New().String(),
		EventTime:     eventTime,
		SchemaVersion: SchemaVersion,
		UserKey:       user.Key,
		Email:         user.Email,
		Username:      user.Username,
		Decision:      review.Decision,
		Note:          review.Note,
		ReviewedBy:    review.ReviewedBy,
	}
}

// PublishApplicationReviewed sends the event to the Kafka topic. Messages are
// keyed by user so decisions for one barista stay ordered.
func (p *ApplicationProducer) PublishApplicationReviewed(ctx context.Context, user *model.User, review model.Review) error {
	event := NewApplicationReviewedEvent(user, review)

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(user.Key),
		Value: payload,
	})
}

// Close cleans up the Kafka writer
func (p *ApplicationProducer) Close() error {
	return p.Writer.Close()
}

// LogPublisher stands in for the producer when no brokers are configured
type LogPublisher struct{}

// PublishApplicationReviewed logs the event it would have sent
func (LogPublisher) PublishApplicationReviewed(_ context.Context, user *model.User, review model.Review) error {
	event := NewApplicationReviewedEvent(user, review)
	logger.Info("kafka disabled, review event not published",
		zap.String("event_id", event.EventID),
		zap.String("email", event.Email),
		zap.String("decision", event.Decision.String()))
	return nil
}
