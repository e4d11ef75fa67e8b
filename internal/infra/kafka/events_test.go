package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap/zaptest"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
)

type fakeAsyncProducer struct {
	input  chan *sarama.ProducerMessage
	errors chan *sarama.ProducerError
}

func newFakeAsyncProducer() *fakeAsyncProducer {
	return &fakeAsyncProducer{
		input:  make(chan *sarama.ProducerMessage, 1),
		errors: make(chan *sarama.ProducerError, 1),
	}
}

func (f *fakeAsyncProducer) AsyncClose() {}

func (f *fakeAsyncProducer) Close() error { return nil }

func (f *fakeAsyncProducer) Input() chan<- *sarama.ProducerMessage { return f.input }

func (f *fakeAsyncProducer) Successes() <-chan *sarama.ProducerMessage { return nil }

func (f *fakeAsyncProducer) Errors() <-chan *sarama.ProducerError { return f.errors }

func (f *fakeAsyncProducer) IsTransactional() bool { return false }

func (f *fakeAsyncProducer) BeginTxn() error { return nil }

func (f *fakeAsyncProducer) CommitTxn() error { return nil }

func (f *fakeAsyncProducer) AbortTxn() error { return nil }

func (f *fakeAsyncProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (f *fakeAsyncProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (f *fakeAsyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag {
	return sarama.ProducerTxnStatusFlag(0)
}

func newTestPublisher(t *testing.T, asyncProducer sarama.AsyncProducer) *EventPublisher {
	t.Helper()

	producer := &Producer{
		producer: asyncProducer,
		logger:   zaptest.NewLogger(t),
		cfg: config.KafkaSettings{
			TopicPrefix: "meme",
		},
		done: make(chan struct{}),
	}

	return NewEventPublisher(producer, config.AppSettings{
		Name: "memematch-api",
		Env:  "test",
	}, zaptest.NewLogger(t))
}

func TestPublishMatchCreated(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	createdAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := domain.MatchCreatedEvent{
		EventID:   "event-123",
		MatchID:   "match-456",
		UserA:     "acct-1",
		UserB:     "acct-2",
		CreatedAt: createdAt,
		Metadata:  map[string]any{"source": "unit-test"},
	}

	if err := publisher.PublishMatchCreated(context.Background(), event); err != nil {
		t.Fatalf("PublishMatchCreated returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		if msg.Topic != "meme.match.created" {
			t.Fatalf("unexpected topic: %s", msg.Topic)
		}

		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope map[string]any
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if got := envelope["event_type"]; got != "match.created" {
			t.Fatalf("unexpected event_type: %v", got)
		}
		if got := envelope["event_id"]; got != event.EventID {
			t.Fatalf("unexpected event_id: %v", got)
		}
		if got := envelope["account_id"]; got != event.UserA {
			t.Fatalf("unexpected account_id: %v", got)
		}

		payload, ok := envelope["payload"].(map[string]any)
		if !ok {
			t.Fatalf("payload not an object: %T", envelope["payload"])
		}
		if got := payload["match_id"]; got != event.MatchID {
			t.Fatalf("unexpected match_id: %v", got)
		}
		if got := payload["user_b"]; got != event.UserB {
			t.Fatalf("unexpected user_b: %v", got)
		}
	default:
		t.Fatal("no message produced")
	}
}

func TestPublishAccountRegisteredMasksEmail(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	event := domain.AccountRegisteredEvent{
		Email:       "john.doe@example.com",
		Username:    "meme_lord",
		RequestedAt: time.Now().UTC(),
	}

	if err := publisher.PublishAccountRegistered(context.Background(), event); err != nil {
		t.Fatalf("PublishAccountRegistered returned error: %v", err)
	}

	select {
	case msg := <-asyncProducer.input:
		bytes, err := msg.Value.Encode()
		if err != nil {
			t.Fatalf("Value.Encode returned error: %v", err)
		}

		var envelope struct {
			EventID string `json:"event_id"`
			Payload struct {
				Email string `json:"email"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(bytes, &envelope); err != nil {
			t.Fatalf("failed to unmarshal envelope: %v", err)
		}

		if envelope.EventID == "" {
			t.Fatal("expected generated event_id")
		}
		if envelope.Payload.Email != "joh***@example.com" {
			t.Fatalf("expected masked email, got %q", envelope.Payload.Email)
		}
	default:
		t.Fatal("no message produced")
	}
}

func TestPublishRespectsContextCancellation(t *testing.T) {
	asyncProducer := newFakeAsyncProducer()
	publisher := newTestPublisher(t, asyncProducer)

	// Fill the input buffer so the next publish blocks.
	asyncProducer.input <- &sarama.ProducerMessage{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := publisher.PublishMemeLiked(ctx, domain.MemeLikedEvent{
		MemeID:    "meme-1",
		AccountID: "acct-1",
		Liked:     true,
		At:        time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected context error")
	}
}
