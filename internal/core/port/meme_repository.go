package port

import (
	"context"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// MemeFilter narrows meme listings.
type MemeFilter struct {
	CreatorID string
	Tag       string
	Limit     int
	Offset    int
}

// MemeRepository persists memes, their like sets, and comments.
type MemeRepository interface {
	Create(ctx context.Context, meme domain.Meme) error
	GetByID(ctx context.Context, id string) (*domain.Meme, error)
	List(ctx context.Context, filter MemeFilter) ([]domain.Meme, error)
	Update(ctx context.Context, meme domain.Meme) error
	Delete(ctx context.Context, id string) error

	AddLike(ctx context.Context, memeID, accountID string) error
	RemoveLike(ctx context.Context, memeID, accountID string) error

	AddComment(ctx context.Context, comment domain.Comment) error
	GetComment(ctx context.Context, memeID, commentID string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, memeID, commentID string) error
}
