package kafka

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	application "github.com/baristahub/baristahub-backend/events/modules/applications"
	"github.com/baristahub/baristahub-backend/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type chanReader struct {
	messages chan kafka.Message
	closed   chan struct{}
	once     sync.Once
}

func newChanReader(msgs ...kafka.Message) *chanReader {
	r := &chanReader{messages: make(chan kafka.Message, len(msgs)), closed: make(chan struct{})}
	for _, m := range msgs {
		r.messages <- m
	}
	return r
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.messages:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

type countingNotifier struct {
	mu     sync.Mutex
	emails []string
	done   chan struct{}
	want   int
}

func (n *countingNotifier) NotifyApplicationReviewed(_ context.Context, event application.ApplicationReviewedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, event.Email)
	if len(n.emails) == n.want {
		close(n.done)
	}
	return nil
}

func message(t *testing.T, email string) kafka.Message {
	t.Helper()
	event := application.NewApplicationReviewedEvent(
		&model.User{Key: email, Email: email, Username: "bea"},
		model.Review{Decision: model.StatusAccepted, At: time.Now().UTC()},
	)
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Value: payload}
}

func TestConsumeSkipsBadMessagesAndStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reader := newChanReader(
		message(t, "a@example.com"),
		kafka.Message{Value: []byte("not json")},
		message(t, "b@example.com"),
	)
	notifier := &countingNotifier{done: make(chan struct{}), want: 2}

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		Consume(ctx, reader, notifier, zap.NewNop())
		close(finished)
	}()

	select {
	case <-notifier.done:
	case <-time.After(5 * time.Second):
		t.Fatal("notifier was not called for both valid events")
	}
	cancel()
	<-finished

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, notifier.emails)
	select {
	case <-reader.closed:
	default:
		t.Fatal("reader was not closed")
	}
}

func TestNewDialer(t *testing.T) {
	plainDialer := NewDialer(Config{})
	assert.Nil(t, plainDialer.SASLMechanism)
	assert.Nil(t, plainDialer.TLS)

	secure := NewDialer(Config{APIKey: "key", APISecret: "secret"})
	assert.NotNil(t, secure.SASLMechanism)
	assert.NotNil(t, secure.TLS)
}

func TestRunEventProcessorUnreachableBroker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RunEventProcessor(ctx, Config{Brokers: []string{"127.0.0.1:1"}, Topic: "t", GroupID: "g"}, &countingNotifier{}, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
