package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

// NotificationRepository implements port.NotificationRepository using
// PostgreSQL.
type NotificationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewNotificationRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewNotificationRepository(exec pgExecutor) *NotificationRepository {
	return &NotificationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a notification row.
func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	stmt, args, err := r.builder.Insert("meme.notifications").
		Columns("id", "recipient_id", "type", "content", "related_user_id", "link", "read", "created_at").
		Values(
			notification.ID,
			notification.RecipientID,
			notification.Type,
			notification.Content,
			notification.RelatedUserID,
			notification.Link,
			notification.Read,
			notification.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by identifier.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	stmt, args, err := r.selectQuery().
		Where(squirrel.Eq{"n.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select notification sql: %w", err)
	}

	notification, err := scanNotification(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan notification: %w", err)
	}

	return &notification, nil
}

// ListByRecipient retrieves the recipient's notifications newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	stmt, args, err := r.selectQuery().
		Where(squirrel.Eq{"n.recipient_id": recipientID}).
		OrderBy("n.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select notifications sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) selectQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"n.id",
			"n.recipient_id",
			"n.type",
			"n.content",
			"n.related_user_id",
			"n.link",
			"n.read",
			"n.created_at",
			"a.username",
			"a.avatar_url",
		).
		From("meme.notifications n").
		LeftJoin("meme.accounts a ON a.id = n.related_user_id")
}

func scanNotification(row pgx.Row) (domain.Notification, error) {
	var (
		notification domain.Notification
		username     sql.NullString
		avatarURL    sql.NullString
	)
	if err := row.Scan(
		&notification.ID,
		&notification.RecipientID,
		&notification.Type,
		&notification.Content,
		&notification.RelatedUserID,
		&notification.Link,
		&notification.Read,
		&notification.CreatedAt,
		&username,
		&avatarURL,
	); err != nil {
		return domain.Notification{}, err
	}

	if notification.RelatedUserID != nil && username.Valid {
		ref := domain.AccountRef{ID: *notification.RelatedUserID, Username: username.String}
		if avatarURL.Valid {
			val := avatarURL.String
			ref.AvatarURL = &val
		}
		notification.RelatedUser = &ref
	}

	return notification, nil
}

// MarkRead flags a single notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Update("meme.notifications").
		Set("read", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// MarkAllRead flags every unread notification of the recipient as read and
// returns the number of rows touched.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	stmt, args, err := r.builder.
		Update("meme.notifications").
		Set("read", true).
		Where(squirrel.Eq{"recipient_id": recipientID, "read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// Delete removes a single notification.
func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("meme.notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete notification sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByRecipient removes every notification of the recipient and returns
// the number of rows removed.
func (r *NotificationRepository) DeleteByRecipient(ctx context.Context, recipientID string) (int, error) {
	stmt, args, err := r.builder.
		Delete("meme.notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete notifications sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
