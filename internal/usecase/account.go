package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

var (
	// ErrAccountNotFound indicates no account exists for the identifier.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPasswordMismatch indicates the supplied current password is wrong.
	ErrPasswordMismatch = errors.New("current password is incorrect")
	// ErrNoPasswordSet indicates the account authenticates externally and has
	// no password to change.
	ErrNoPasswordSet = errors.New("account has no password set")
	// ErrInvalidRole indicates a role value outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
)

// UpdateProfileInput carries the mutable profile fields. Nil pointers leave
// the stored value untouched.
type UpdateProfileInput struct {
	Username  *string
	AvatarURL *string
	Bio       *string
	Interests []string
}

// AccountService coordinates profile reads and updates.
type AccountService struct {
	accounts  port.AccountRepository
	validator *security.PasswordValidator
	logger    *zap.Logger
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(accounts port.AccountRepository, validator *security.PasswordValidator, log *zap.Logger) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &AccountService{accounts: accounts, validator: validator, logger: log}
}

// Get retrieves an account by id with credential material stripped.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	return account.Sanitized(), nil
}

// UpdateInfo applies a partial profile update and returns the result.
func (s *AccountService) UpdateInfo(ctx context.Context, id string, input UpdateProfileInput) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if err := validateUsername(username); err != nil {
			return domain.Account{}, err
		}
		account.Username = username
	}
	if input.AvatarURL != nil {
		account.AvatarURL = input.AvatarURL
	}
	if input.Bio != nil {
		account.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Interests != nil {
		interests := make([]string, 0, len(input.Interests))
		for _, interest := range input.Interests {
			interest = strings.ToLower(strings.TrimSpace(interest))
			if interest != "" {
				interests = append(interests, interest)
			}
		}
		account.Interests = interests
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.UpdateProfile(ctx, *account); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}

	return account.Sanitized(), nil
}

// UpdatePassword verifies the current password and stores a new hash.
func (s *AccountService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	account, err := s.accounts.GetByIDWithPassword(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	if account.PasswordHash == "" {
		return ErrNoPasswordSet
	}

	ok, err := security.VerifyPassword(currentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrPasswordMismatch
	}

	rules := security.NewPasswordValidator(security.RequireDifferentFrom(currentPassword))
	if err := rules.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}
	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := time.Now().UTC()
	if err := s.accounts.UpdatePassword(ctx, id, hash, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("account password changed", zap.String("account_id", id))

	return nil
}

// ListAll returns every account, sanitized. Admin only.
func (s *AccountService) ListAll(ctx context.Context, actor domain.Account) ([]domain.Account, error) {
	if !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	for i := range accounts {
		accounts[i] = accounts[i].Sanitized()
	}

	return accounts, nil
}

// UpdateRole changes another account's role. Admin only; admins cannot
// demote themselves, which keeps at least one admin reachable.
func (s *AccountService) UpdateRole(ctx context.Context, actor domain.Account, id string, role domain.Role) (domain.Account, error) {
	if !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return domain.Account{}, ErrForbidden
	}
	if !role.Valid() {
		return domain.Account{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if actor.ID == id {
		return domain.Account{}, ErrForbidden
	}

	if err := s.accounts.UpdateRole(ctx, id, role, time.Now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update role: %w", err)
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	s.logger.Info("account role changed",
		zap.String("account_id", id),
		zap.String("role", string(role)),
		zap.String("changed_by", actor.ID))

	return account.Sanitized(), nil
}

// Delete removes an account. Admin only; admins cannot delete themselves.
func (s *AccountService) Delete(ctx context.Context, actor domain.Account, id string) error {
	if !domain.RoleAllowed(actor.Role, domain.RoleAdmin) {
		return ErrForbidden
	}
	if actor.ID == id {
		return ErrForbidden
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	s.logger.Info("account deleted",
		zap.String("account_id", id),
		zap.String("deleted_by", actor.ID))

	return nil
}
