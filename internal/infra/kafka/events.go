package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, log *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: log}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID string           `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes meme.account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		Email       string         `json:"email"`
		Username    string         `json:"username"`
		RequestedAt time.Time      `json:"requested_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		Email:       logger.MaskEmail(event.Email),
		Username:    event.Username,
		RequestedAt: event.RequestedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "account.registered", "", event.RequestedAt, payload)
}

// PublishAccountActivated publishes meme.account.activated events.
func (p *EventPublisher) PublishAccountActivated(ctx context.Context, event domain.AccountActivatedEvent) error {
	payload := struct {
		AccountID   string         `json:"account_id"`
		Username    string         `json:"username"`
		Email       string         `json:"email"`
		ActivatedAt time.Time      `json:"activated_at"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:   event.AccountID,
		Username:    event.Username,
		Email:       logger.MaskEmail(event.Email),
		ActivatedAt: event.ActivatedAt.UTC(),
		Metadata:    event.Metadata,
	}

	return p.publish(ctx, event.EventID, "account.activated", event.AccountID, event.ActivatedAt, payload)
}

// PublishMatchCreated publishes meme.match.created events.
func (p *EventPublisher) PublishMatchCreated(ctx context.Context, event domain.MatchCreatedEvent) error {
	payload := struct {
		MatchID   string         `json:"match_id"`
		UserA     string         `json:"user_a"`
		UserB     string         `json:"user_b"`
		CreatedAt time.Time      `json:"created_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		MatchID:   event.MatchID,
		UserA:     event.UserA,
		UserB:     event.UserB,
		CreatedAt: event.CreatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "match.created", event.UserA, event.CreatedAt, payload)
}

// PublishMemeLiked publishes meme.meme.liked events.
func (p *EventPublisher) PublishMemeLiked(ctx context.Context, event domain.MemeLikedEvent) error {
	payload := struct {
		MemeID    string         `json:"meme_id"`
		AccountID string         `json:"account_id"`
		Liked     bool           `json:"liked"`
		At        time.Time      `json:"at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		MemeID:    event.MemeID,
		AccountID: event.AccountID,
		Liked:     event.Liked,
		At:        event.At.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "meme.liked", event.AccountID, event.At, payload)
}

// PublishNotificationCreated publishes meme.notification.created events.
func (p *EventPublisher) PublishNotificationCreated(ctx context.Context, event domain.NotificationCreatedEvent) error {
	payload := struct {
		NotificationID string         `json:"notification_id"`
		RecipientID    string         `json:"recipient_id"`
		Type           string         `json:"type"`
		CreatedAt      time.Time      `json:"created_at"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		NotificationID: event.NotificationID,
		RecipientID:    event.RecipientID,
		Type:           string(event.Type),
		CreatedAt:      event.CreatedAt.UTC(),
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, "notification.created", event.RecipientID, event.CreatedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
