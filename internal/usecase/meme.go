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
	// ErrMemeNotFound indicates no meme exists for the identifier.
	ErrMemeNotFound = errors.New("meme not found")
	// ErrCommentNotFound indicates no comment exists for the identifier.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrForbidden indicates the actor lacks the rights for the operation.
	ErrForbidden = errors.New("operation not permitted")
)

const (
	maxCaptionLength = 250
	maxCommentLength = 500
	maxTagsPerMeme   = 10
	defaultPageSize  = 20
	maxPageSize      = 100
)

// CreateMemeInput carries the fields of a new meme post.
type CreateMemeInput struct {
	ImageURL string
	Caption  string
	Tags     []string
}

// UpdateMemeInput carries a partial meme update. Nil pointers leave the
// stored value untouched.
type UpdateMemeInput struct {
	Caption *string
	Tags    []string
}

// MemeService coordinates meme posting, feeds, likes, and comments.
type MemeService struct {
	memes  port.MemeRepository
	events port.EventPublisher
	logger *zap.Logger
}

// NewMemeService constructs a MemeService instance.
func NewMemeService(memes port.MemeRepository, events port.EventPublisher, log *zap.Logger) *MemeService {
	return &MemeService{memes: memes, events: events, logger: log}
}

// Create posts a new meme owned by the actor.
func (s *MemeService) Create(ctx context.Context, actor domain.Account, input CreateMemeInput) (domain.Meme, error) {
	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		return domain.Meme{}, fmt.Errorf("image url is required")
	}
	caption := strings.TrimSpace(input.Caption)
	if len(caption) > maxCaptionLength {
		return domain.Meme{}, fmt.Errorf("caption exceeds %d characters", maxCaptionLength)
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return domain.Meme{}, err
	}

	now := time.Now().UTC()
	meme := domain.Meme{
		ID:        uuid.NewString(),
		CreatorID: actor.ID,
		ImageURL:  imageURL,
		Caption:   caption,
		Tags:      tags,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.memes.Create(ctx, meme); err != nil {
		return domain.Meme{}, fmt.Errorf("create meme: %w", err)
	}

	avatar := actor.AvatarURL
	meme.Creator = &domain.AccountRef{ID: actor.ID, Username: actor.Username, AvatarURL: avatar}

	return meme, nil
}

// Get retrieves a single meme aggregate.
func (s *MemeService) Get(ctx context.Context, id string) (domain.Meme, error) {
	meme, err := s.memes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Meme{}, ErrMemeNotFound
		}
		return domain.Meme{}, fmt.Errorf("lookup meme: %w", err)
	}

	return *meme, nil
}

// List retrieves the meme feed newest first. The filter's limit is clamped.
func (s *MemeService) List(ctx context.Context, filter port.MemeFilter) ([]domain.Meme, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	memes, err := s.memes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list memes: %w", err)
	}
	if memes == nil {
		memes = []domain.Meme{}
	}

	return memes, nil
}

// Update applies a partial edit. Only the creator or an admin may edit.
func (s *MemeService) Update(ctx context.Context, actor domain.Account, memeID string, input UpdateMemeInput) (domain.Meme, error) {
	meme, err := s.Get(ctx, memeID)
	if err != nil {
		return domain.Meme{}, err
	}

	if !canModerate(actor, meme.CreatorID) {
		return domain.Meme{}, ErrForbidden
	}

	if input.Caption != nil {
		caption := strings.TrimSpace(*input.Caption)
		if len(caption) > maxCaptionLength {
			return domain.Meme{}, fmt.Errorf("caption exceeds %d characters", maxCaptionLength)
		}
		meme.Caption = caption
	}
	if input.Tags != nil {
		tags, err := normalizeTags(input.Tags)
		if err != nil {
			return domain.Meme{}, err
		}
		meme.Tags = tags
	}
	meme.UpdatedAt = time.Now().UTC()

	if err := s.memes.Update(ctx, meme); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Meme{}, ErrMemeNotFound
		}
		return domain.Meme{}, fmt.Errorf("update meme: %w", err)
	}

	return meme, nil
}

// Delete removes a meme. Only the creator or an admin may delete.
func (s *MemeService) Delete(ctx context.Context, actor domain.Account, memeID string) error {
	meme, err := s.Get(ctx, memeID)
	if err != nil {
		return err
	}

	if !canModerate(actor, meme.CreatorID) {
		return ErrForbidden
	}

	if err := s.memes.Delete(ctx, memeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemeNotFound
		}
		return fmt.Errorf("delete meme: %w", err)
	}

	return nil
}

// ToggleLike flips the actor's like on a meme and returns the new state.
func (s *MemeService) ToggleLike(ctx context.Context, actor domain.Account, memeID string) (bool, domain.Meme, error) {
	meme, err := s.Get(ctx, memeID)
	if err != nil {
		return false, domain.Meme{}, err
	}

	liked := !meme.LikedBy(actor.ID)
	if liked {
		err = s.memes.AddLike(ctx, memeID, actor.ID)
		if errors.Is(err, repository.ErrConflict) {
			// Raced with another toggle; the like is present either way.
			err = nil
			liked = true
		}
	} else {
		err = s.memes.RemoveLike(ctx, memeID, actor.ID)
		if errors.Is(err, repository.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return false, domain.Meme{}, fmt.Errorf("toggle like: %w", err)
	}

	meme, err = s.Get(ctx, memeID)
	if err != nil {
		return false, domain.Meme{}, err
	}

	if s.events != nil {
		event := domain.MemeLikedEvent{
			MemeID:    memeID,
			AccountID: actor.ID,
			Liked:     liked,
			At:        time.Now().UTC(),
		}
		if err := s.events.PublishMemeLiked(ctx, event); err != nil {
			s.logger.Warn("publish meme liked event failed", zap.Error(err))
		}
	}

	return liked, meme, nil
}

// AddComment appends a comment by the actor.
func (s *MemeService) AddComment(ctx context.Context, actor domain.Account, memeID, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, fmt.Errorf("comment text is required")
	}
	if len(text) > maxCommentLength {
		return domain.Comment{}, fmt.Errorf("comment exceeds %d characters", maxCommentLength)
	}

	if _, err := s.Get(ctx, memeID); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		MemeID:    memeID,
		AuthorID:  actor.ID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.memes.AddComment(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("add comment: %w", err)
	}

	comment.Author = &domain.AccountRef{ID: actor.ID, Username: actor.Username, AvatarURL: actor.AvatarURL}

	return comment, nil
}

// DeleteComment removes a comment. The comment author, the meme creator, and
// admins may delete.
func (s *MemeService) DeleteComment(ctx context.Context, actor domain.Account, memeID, commentID string) error {
	meme, err := s.Get(ctx, memeID)
	if err != nil {
		return err
	}

	comment, err := s.memes.GetComment(ctx, memeID, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("lookup comment: %w", err)
	}

	if actor.ID != comment.AuthorID && !canModerate(actor, meme.CreatorID) {
		return ErrForbidden
	}

	if err := s.memes.DeleteComment(ctx, memeID, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

func canModerate(actor domain.Account, ownerID string) bool {
	return actor.ID == ownerID || domain.RoleAllowed(actor.Role, domain.RoleAdmin)
}

func normalizeTags(tags []string) ([]string, error) {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	if len(normalized) > maxTagsPerMeme {
		return nil, fmt.Errorf("at most %d tags allowed", maxTagsPerMeme)
	}
	return normalized, nil
}
