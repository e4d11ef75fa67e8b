package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"email":        logger.MaskEmail(event.Email),
		"username":     event.Username,
		"requested_at": event.RequestedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("account.registered", "", event.RequestedAt, payload)
	return nil
}

// PublishAccountActivated logs account.activated events.
func (p *StubPublisher) PublishAccountActivated(_ context.Context, event domain.AccountActivatedEvent) error {
	payload := map[string]any{
		"account_id":   event.AccountID,
		"username":     event.Username,
		"email":        logger.MaskEmail(event.Email),
		"activated_at": event.ActivatedAt,
		"metadata":     event.Metadata,
	}
	p.logEvent("account.activated", event.AccountID, event.ActivatedAt, payload)
	return nil
}

// PublishMatchCreated logs match.created events.
func (p *StubPublisher) PublishMatchCreated(_ context.Context, event domain.MatchCreatedEvent) error {
	payload := map[string]any{
		"match_id":   event.MatchID,
		"user_a":     event.UserA,
		"user_b":     event.UserB,
		"created_at": event.CreatedAt,
		"metadata":   event.Metadata,
	}
	p.logEvent("match.created", event.UserA, event.CreatedAt, payload)
	return nil
}

// PublishMemeLiked logs meme.liked events.
func (p *StubPublisher) PublishMemeLiked(_ context.Context, event domain.MemeLikedEvent) error {
	payload := map[string]any{
		"meme_id":    event.MemeID,
		"account_id": event.AccountID,
		"liked":      event.Liked,
		"at":         event.At,
		"metadata":   event.Metadata,
	}
	p.logEvent("meme.liked", event.AccountID, event.At, payload)
	return nil
}

// PublishNotificationCreated logs notification.created events.
func (p *StubPublisher) PublishNotificationCreated(_ context.Context, event domain.NotificationCreatedEvent) error {
	payload := map[string]any{
		"notification_id": event.NotificationID,
		"recipient_id":    event.RecipientID,
		"type":            event.Type,
		"created_at":      event.CreatedAt,
		"metadata":        event.Metadata,
	}
	p.logEvent("notification.created", event.RecipientID, event.CreatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
