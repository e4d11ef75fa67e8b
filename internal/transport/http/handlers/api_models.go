package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse reports how many rows a bulk operation touched.
type CountResponse struct {
	Count int `json:"count"`
}

// HealthResponse describes the healthz payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	StartedAt time.Time         `json:"started_at"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// AccountResponse is the public view of an account. The password hash is never
// part of this shape.
type AccountResponse struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"is_verified"`
	AvatarURL  *string    `json:"avatar_url,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	Interests  []string   `json:"interests"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func newAccountResponse(account domain.Account) AccountResponse {
	interests := account.Interests
	if interests == nil {
		interests = []string{}
	}

	return AccountResponse{
		ID:         account.ID,
		Username:   account.Username,
		Email:      account.Email,
		Role:       string(account.Role),
		IsVerified: account.IsVerified,
		AvatarURL:  account.AvatarURL,
		Bio:        account.Bio,
		Interests:  interests,
		LastLogin:  account.LastLogin,
		CreatedAt:  account.CreatedAt,
	}
}

// AccountRefResponse is the minimal account projection embedded in other payloads.
type AccountRefResponse struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func newAccountRefResponse(ref *domain.AccountRef) *AccountRefResponse {
	if ref == nil {
		return nil
	}
	return &AccountRefResponse{ID: ref.ID, Username: ref.Username, AvatarURL: ref.AvatarURL}
}

func newAccountRefResponses(refs []domain.AccountRef) []AccountRefResponse {
	out := make([]AccountRefResponse, 0, len(refs))
	for i := range refs {
		out = append(out, *newAccountRefResponse(&refs[i]))
	}
	return out
}

// AuthResponse is returned by login, activation, and social auth. The access
// token mirrors the cookie for clients that prefer the Authorization header.
type AuthResponse struct {
	User        AccountResponse `json:"user"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
}

// RegisterRequest defines the signup payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse returns the activation token the client must present with
// the emailed code.
type RegisterResponse struct {
	Message         string `json:"message"`
	ActivationToken string `json:"activation_token"`
}

// ActivateRequest defines the activation payload.
type ActivateRequest struct {
	Token string `json:"token" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SocialAuthRequest carries a verified profile from a social identity provider.
type SocialAuthRequest struct {
	Email     string  `json:"email" binding:"required"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdatePasswordRequest defines the password change payload.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UpdateRoleRequest names the account whose role an admin is changing.
type UpdateRoleRequest struct {
	UserID string `json:"id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// UpdateInfoRequest defines a partial profile update. Absent fields are left
// untouched.
type UpdateInfoRequest struct {
	Username  *string  `json:"username"`
	Bio       *string  `json:"bio"`
	AvatarURL *string  `json:"avatar_url"`
	Interests []string `json:"interests"`
}

// CommentResponse is a single comment on a meme.
type CommentResponse struct {
	ID        string              `json:"id"`
	MemeID    string              `json:"meme_id"`
	AuthorID  string              `json:"author_id"`
	Author    *AccountRefResponse `json:"author,omitempty"`
	Text      string              `json:"text"`
	CreatedAt time.Time           `json:"created_at"`
}

func newCommentResponse(comment domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		MemeID:    comment.MemeID,
		AuthorID:  comment.AuthorID,
		Author:    newAccountRefResponse(comment.Author),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

// MemeResponse is the full meme aggregate.
type MemeResponse struct {
	ID        string              `json:"id"`
	CreatorID string              `json:"creator_id"`
	Creator   *AccountRefResponse `json:"creator,omitempty"`
	ImageURL  string              `json:"image_url"`
	Caption   string              `json:"caption"`
	Tags      []string            `json:"tags"`
	Likes     []string            `json:"likes"`
	LikeCount int                 `json:"like_count"`
	Comments  []CommentResponse   `json:"comments"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func newMemeResponse(meme domain.Meme) MemeResponse {
	tags := meme.Tags
	if tags == nil {
		tags = []string{}
	}
	likes := meme.Likes
	if likes == nil {
		likes = []string{}
	}

	comments := make([]CommentResponse, 0, len(meme.Comments))
	for _, comment := range meme.Comments {
		comments = append(comments, newCommentResponse(comment))
	}

	return MemeResponse{
		ID:        meme.ID,
		CreatorID: meme.CreatorID,
		Creator:   newAccountRefResponse(meme.Creator),
		ImageURL:  meme.ImageURL,
		Caption:   meme.Caption,
		Tags:      tags,
		Likes:     likes,
		LikeCount: len(likes),
		Comments:  comments,
		CreatedAt: meme.CreatedAt,
		UpdatedAt: meme.UpdatedAt,
	}
}

func newMemeResponses(memes []domain.Meme) []MemeResponse {
	out := make([]MemeResponse, 0, len(memes))
	for _, meme := range memes {
		out = append(out, newMemeResponse(meme))
	}
	return out
}

// CreateMemeRequest defines the meme-creation payload.
type CreateMemeRequest struct {
	ImageURL string   `json:"image_url" binding:"required"`
	Caption  string   `json:"caption"`
	Tags     []string `json:"tags"`
}

// UpdateMemeRequest defines a partial meme edit.
type UpdateMemeRequest struct {
	Caption *string  `json:"caption"`
	Tags    []string `json:"tags"`
}

// AddCommentRequest defines the comment payload.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ToggleLikeResponse reports the like state after a toggle.
type ToggleLikeResponse struct {
	Liked bool         `json:"liked"`
	Meme  MemeResponse `json:"meme"`
}

// MatchResponse is the full match aggregate.
type MatchResponse struct {
	ID               string               `json:"id"`
	UserA            string               `json:"user_a"`
	UserB            string               `json:"user_b"`
	Status           string               `json:"status"`
	MatchedInterests []string             `json:"matched_interests"`
	Users            []AccountRefResponse `json:"users"`
	LastInteraction  time.Time            `json:"last_interaction"`
	CreatedAt        time.Time            `json:"created_at"`
}

func newMatchResponse(match domain.Match) MatchResponse {
	interests := match.MatchedInterests
	if interests == nil {
		interests = []string{}
	}

	return MatchResponse{
		ID:               match.ID,
		UserA:            match.UserA,
		UserB:            match.UserB,
		Status:           string(match.Status),
		MatchedInterests: interests,
		Users:            newAccountRefResponses(match.Users),
		LastInteraction:  match.LastInteraction,
		CreatedAt:        match.CreatedAt,
	}
}

func newMatchResponses(matches []domain.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for _, match := range matches {
		out = append(out, newMatchResponse(match))
	}
	return out
}

// CreateMatchRequest defines the match-creation payload.
type CreateMatchRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// NotificationResponse is a single notification.
type NotificationResponse struct {
	ID            string              `json:"id"`
	RecipientID   string              `json:"recipient_id"`
	Type          string              `json:"type"`
	Content       string              `json:"content"`
	RelatedUserID *string             `json:"related_user_id,omitempty"`
	RelatedUser   *AccountRefResponse `json:"related_user,omitempty"`
	Link          string              `json:"link,omitempty"`
	Read          bool                `json:"read"`
	CreatedAt     time.Time           `json:"created_at"`
}

func newNotificationResponse(notification domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            notification.ID,
		RecipientID:   notification.RecipientID,
		Type:          string(notification.Type),
		Content:       notification.Content,
		RelatedUserID: notification.RelatedUserID,
		RelatedUser:   newAccountRefResponse(notification.RelatedUser),
		Link:          notification.Link,
		Read:          notification.Read,
		CreatedAt:     notification.CreatedAt,
	}
}

func newNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, newNotificationResponse(notification))
	}
	return out
}

// CreateNotificationRequest defines the notification-creation payload.
type CreateNotificationRequest struct {
	RecipientID   string  `json:"recipient_id" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	Content       string  `json:"content" binding:"required"`
	RelatedUserID *string `json:"related_user_id"`
	Link          string  `json:"link"`
}
