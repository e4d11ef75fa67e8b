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
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/logger"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAccessToken indicates the access token is malformed, expired, or
	// references a deleted account.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrInvalidRefreshToken indicates the refresh token is malformed, expired,
	// or references a deleted account.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// SocialProfile carries the identity asserted by an external provider.
type SocialProfile struct {
	Email     string
	Username  string
	AvatarURL *string
}

// AuthService coordinates login, token verification, refresh, and social auth.
type AuthService struct {
	accounts port.AccountRepository
	tokens   *security.TokenService
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(accounts port.AccountRepository, tokens *security.TokenService, log *zap.Logger) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens, logger: log}
}

// Login validates credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Account, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.Account{}, "", "", ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, "", "", ErrInvalidCredentials
		}
		return domain.Account{}, "", "", fmt.Errorf("lookup account: %w", err)
	}

	// Social-auth accounts have no password hash and cannot log in with one.
	if account.PasswordHash == "" {
		return domain.Account{}, "", "", ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return domain.Account{}, "", "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.Account{}, "", "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("update last login failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
	account.LastLogin = &now

	access, refresh, err := s.tokens.IssueSessionTokens(account.ID)
	if err != nil {
		return domain.Account{}, "", "", fmt.Errorf("issue session tokens: %w", err)
	}

	s.logger.Info("account logged in",
		zap.String("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
	)

	return account.Sanitized(), access, refresh, nil
}

// VerifyAccess resolves an access token to its account.
func (s *AuthService) VerifyAccess(ctx context.Context, token string) (*domain.Account, error) {
	accountID, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	return account, nil
}

// Refresh validates a refresh token and issues a fresh access/refresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	accountID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", fmt.Errorf("lookup account: %w", err)
	}

	access, refresh, err := s.tokens.IssueSessionTokens(accountID)
	if err != nil {
		return "", "", fmt.Errorf("issue session tokens: %w", err)
	}

	return access, refresh, nil
}

// SocialAuth upserts an account from an external identity and issues a
// session pair. Accounts created this way are verified and have no password.
func (s *AuthService) SocialAuth(ctx context.Context, profile SocialProfile) (domain.Account, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email == "" {
		return domain.Account{}, "", "", fmt.Errorf("email is required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		now := time.Now().UTC()
		created := domain.Account{
			ID:         uuid.NewString(),
			Username:   strings.TrimSpace(profile.Username),
			Email:      email,
			Role:       domain.RoleUser,
			IsVerified: true,
			AvatarURL:  profile.AvatarURL,
			Interests:  []string{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if created.Username == "" {
			created.Username = strings.SplitN(email, "@", 2)[0]
		}
		if err := s.accounts.Create(ctx, created); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.Account{}, "", "", ErrEmailAlreadyExists
			}
			return domain.Account{}, "", "", fmt.Errorf("create account: %w", err)
		}
		account = &created

		s.logger.Info("social account created",
			zap.String("account_id", created.ID),
			zap.String("email", logger.MaskEmail(email)),
		)
	default:
		return domain.Account{}, "", "", fmt.Errorf("lookup account: %w", err)
	}

	now := time.Now().UTC()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		s.logger.Warn("update last login failed",
			zap.String("account_id", account.ID),
			zap.Error(err),
		)
	}
	account.LastLogin = &now

	access, refresh, err := s.tokens.IssueSessionTokens(account.ID)
	if err != nil {
		return domain.Account{}, "", "", fmt.Errorf("issue session tokens: %w", err)
	}

	return account.Sanitized(), access, refresh, nil
}
