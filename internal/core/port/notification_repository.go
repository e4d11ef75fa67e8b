package port

import (
	"context"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// NotificationRepository persists per-account notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	// ListByRecipient returns notifications newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByRecipient(ctx context.Context, recipientID string) (int, error)
}
