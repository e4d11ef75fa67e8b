package port

import (
	"context"
	"time"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
)

// AccountRepository persists accounts. Implementations must enforce the
// unique-email invariant at the storage layer and surface violations as
// repository.ErrConflict.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmail never returns the password hash.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByEmailWithPassword is the explicit read path for login and
	// password-change flows.
	GetByEmailWithPassword(ctx context.Context, email string) (*domain.Account, error)
	GetByIDWithPassword(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, account domain.Account) error
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// List returns every account, newest first, without credential material.
	List(ctx context.Context) ([]domain.Account, error)
	UpdateRole(ctx context.Context, id string, role domain.Role, changedAt time.Time) error
	Delete(ctx context.Context, id string) error
	GetRefs(ctx context.Context, ids []string) ([]domain.AccountRef, error)
}
