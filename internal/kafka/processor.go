// Package kafka runs the consumer that turns application review events into notifications.
package kafka

import (
	"context"
	"crypto/tls"
	"time"

	application "github.com/baristahub/baristahub-backend/events/modules/applications"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// Config describes the brokers and consumer group to read from
type Config struct {
	Brokers   []string
	Topic     string
	GroupID   string
	APIKey    string
	APISecret string
}

// NewDialer returns a plain dialer, or a SASL/PLAIN + TLS dialer when credentials are set
func NewDialer(cfg Config) *kafka.Dialer {
	if cfg.APIKey != "" && cfg.APISecret != "" {
		return &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			SASLMechanism: plain.Mechanism{
				Username: cfg.APIKey,
				Password: cfg.APISecret,
			},
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
}

// MessageReader is the part of *kafka.Reader the processor uses
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// RunEventProcessor checks broker connectivity and starts consuming review
// events in a goroutine bound to ctx. It returns once the consumer is running.
func RunEventProcessor(ctx context.Context, cfg Config, notifier application.Notifier, log *zap.Logger) error {
	dialer := NewDialer(cfg)

	var err error
	// Retry logic: 3 tries
	for i := 1; i <= 3; i++ {
		log.Info("Kafka connection attempt", zap.Int("attempt", i), zap.Int("of", 3))
		var conn *kafka.Conn
		conn, err = dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		return err
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	go Consume(ctx, reader, notifier, log)
	return nil
}

// Consume reads messages until ctx is cancelled, handing each to the review
// handler. Bad messages are logged and skipped.
func Consume(ctx context.Context, reader MessageReader, notifier application.Notifier, log *zap.Logger) {
	defer reader.Close()

	log.Info("Kafka Event Processor started. Listening for application review events...")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("failed to read kafka message", zap.Error(err))
				continue
			}
			if err := application.HandleApplicationReviewed(ctx, msg.Value, notifier); err != nil {
				log.Error("failed to handle review event",
					zap.Int64("offset", msg.Offset),
					zap.Int("partition", msg.Partition),
					zap.Error(err))
			}
		}
	}
}
