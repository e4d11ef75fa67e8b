package domain

import "time"

// AccountRegisteredEvent represents the payload for meme.account.registered messages.
type AccountRegisteredEvent struct {
	EventID     string
	Email       string
	Username    string
	RequestedAt time.Time
	Metadata    map[string]any
}

// AccountActivatedEvent represents the payload for meme.account.activated messages.
type AccountActivatedEvent struct {
	EventID     string
	AccountID   string
	Username    string
	Email       string
	ActivatedAt time.Time
	Metadata    map[string]any
}

// MatchCreatedEvent represents the payload for meme.match.created messages.
type MatchCreatedEvent struct {
	EventID   string
	MatchID   string
	UserA     string
	UserB     string
	CreatedAt time.Time
	Metadata  map[string]any
}

// MemeLikedEvent represents the payload for meme.meme.liked messages.
type MemeLikedEvent struct {
	EventID   string
	MemeID    string
	AccountID string
	Liked     bool
	At        time.Time
	Metadata  map[string]any
}

// NotificationCreatedEvent represents the payload for meme.notification.created messages.
type NotificationCreatedEvent struct {
	EventID        string
	NotificationID string
	RecipientID    string
	Type           NotificationType
	CreatedAt      time.Time
	Metadata       map[string]any
}
