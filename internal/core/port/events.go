package port

import (
	"context"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishAccountActivated(ctx context.Context, event domain.AccountActivatedEvent) error
	PublishMatchCreated(ctx context.Context, event domain.MatchCreatedEvent) error
	PublishMemeLiked(ctx context.Context, event domain.MemeLikedEvent) error
	PublishNotificationCreated(ctx context.Context, event domain.NotificationCreatedEvent) error
}
