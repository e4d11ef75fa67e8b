package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

var (
	// ErrNotificationNotFound indicates no notification exists for the identifier.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidNotificationType indicates the type is outside the closed set.
	ErrInvalidNotificationType = errors.New("invalid notification type")
)

// CreateNotificationInput carries the fields of a new notification.
type CreateNotificationInput struct {
	RecipientID   string
	Type          domain.NotificationType
	Content       string
	RelatedUserID *string
	Link          string
}

// NotificationService coordinates per-account notifications.
type NotificationService struct {
	notifications port.NotificationRepository
	accounts      port.AccountRepository
	events        port.EventPublisher
	logger        *zap.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(
	notifications port.NotificationRepository,
	accounts port.AccountRepository,
	events port.EventPublisher,
	log *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		accounts:      accounts,
		events:        events,
		logger:        log,
	}
}

// Create validates and stores a notification, then publishes the event.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (domain.Notification, error) {
	if !input.Type.Valid() {
		return domain.Notification{}, ErrInvalidNotificationType
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return domain.Notification{}, fmt.Errorf("content is required")
	}

	if _, err := s.accounts.GetByID(ctx, input.RecipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Notification{}, ErrAccountNotFound
		}
		return domain.Notification{}, fmt.Errorf("lookup recipient: %w", err)
	}

	notification := domain.Notification{
		ID:            uuid.NewString(),
		RecipientID:   input.RecipientID,
		Type:          input.Type,
		Content:       content,
		RelatedUserID: input.RelatedUserID,
		Link:          strings.TrimSpace(input.Link),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	if s.events != nil {
		event := domain.NotificationCreatedEvent{
			NotificationID: notification.ID,
			RecipientID:    notification.RecipientID,
			Type:           notification.Type,
			CreatedAt:      notification.CreatedAt,
		}
		if err := s.events.PublishNotificationCreated(ctx, event); err != nil {
			s.logger.Warn("publish notification created event failed", zap.Error(err))
		}
	}

	return notification, nil
}

// ListForAccount returns the account's notifications newest first. Only the
// recipient and admins may read them.
func (s *NotificationService) ListForAccount(ctx context.Context, actor domain.Account, accountID string) ([]domain.Notification, error) {
	if actor.ID != accountID && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	notifications, err := s.notifications.ListByRecipient(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	return notifications, nil
}

// MarkRead flags a notification as read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Account, id string) (domain.Notification, error) {
	notification, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return domain.Notification{}, err
	}

	if err := s.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Notification{}, ErrNotificationNotFound
		}
		return domain.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}

	notification.Read = true
	return notification, nil
}

// MarkAllRead flags every unread notification of the account as read and
// returns how many rows were touched.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Account, accountID string) (int, error) {
	if actor.ID != accountID && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return 0, ErrForbidden
	}

	count, err := s.notifications.MarkAllRead(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return count, nil
}

// Delete removes a single notification. Only the recipient and admins may
// delete.
func (s *NotificationService) Delete(ctx context.Context, actor domain.Account, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.notifications.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("delete notification: %w", err)
	}

	return nil
}

// DeleteAll removes every notification of the account and returns how many
// rows were removed.
func (s *NotificationService) DeleteAll(ctx context.Context, actor domain.Account, accountID string) (int, error) {
	if actor.ID != accountID && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return 0, ErrForbidden
	}

	count, err := s.notifications.DeleteByRecipient(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}

	return count, nil
}

func (s *NotificationService) getOwned(ctx context.Context, actor domain.Account, id string) (domain.Notification, error) {
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Notification{}, ErrNotificationNotFound
		}
		return domain.Notification{}, fmt.Errorf("lookup notification: %w", err)
	}

	if notification.RecipientID != actor.ID && !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return domain.Notification{}, ErrForbidden
	}

	return *notification, nil
}
