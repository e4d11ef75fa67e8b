package domain

import "time"

// NotificationType enumerates supported notification kinds.
type NotificationType string

const (
	NotificationTypeMatch         NotificationType = "match"
	NotificationTypeMessage       NotificationType = "message"
	NotificationTypeFriendRequest NotificationType = "friend_request"
	NotificationTypeSystem        NotificationType = "system"
	NotificationTypeAlert         NotificationType = "alert"
)

// Valid reports whether the type belongs to the closed set.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeMatch, NotificationTypeMessage, NotificationTypeFriendRequest,
		NotificationTypeSystem, NotificationTypeAlert:
		return true
	}
	return false
}

// Notification is a message delivered to a single recipient account.
type Notification struct {
	ID            string
	RecipientID   string
	Type          NotificationType
	Content       string
	RelatedUserID *string
	Link          string
	Read          bool
	CreatedAt     time.Time

	RelatedUser *AccountRef
}
