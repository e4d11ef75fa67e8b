package port

import (
	"context"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// MatchRepository persists match relationships. The (UserA, UserB) pair is
// stored normalized and unique; Create surfaces a duplicate pair as
// repository.ErrConflict.
type MatchRepository interface {
	Create(ctx context.Context, match domain.Match) error
	GetByID(ctx context.Context, id string) (*domain.Match, error)
	GetByPair(ctx context.Context, userA, userB string) (*domain.Match, error)
	ListByUser(ctx context.Context, accountID string) ([]domain.Match, error)
	UpdateStatus(ctx context.Context, id string, status domain.MatchStatus) error
	Delete(ctx context.Context, id string) error
}
