package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	infraMail "github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/mail"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

var (
	// ErrEmailAlreadyExists indicates an account with the email already exists.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrInvalidActivationToken indicates the activation token is malformed or expired.
	ErrInvalidActivationToken = errors.New("invalid or expired activation token")
	// ErrActivationCodeMismatch indicates the supplied code does not match the token.
	ErrActivationCodeMismatch = errors.New("activation code mismatch")
	// ErrWeakPassword indicates the password fails the account password policy.
	ErrWeakPassword = errors.New("password does not meet policy")
	// ErrInvalidInput indicates a request field failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
)

// RegistrationService coordinates the register/activate flow. No account row
// exists until activation succeeds; the pending registration lives only
// inside the signed activation token.
type RegistrationService struct {
	cfg       *config.AppConfig
	accounts  port.AccountRepository
	tokens    *security.TokenService
	validator *security.PasswordValidator
	mailer    port.MailSender
	events    port.EventPublisher
	logger    *zap.Logger
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	tokens *security.TokenService,
	validator *security.PasswordValidator,
	mailer port.MailSender,
	events port.EventPublisher,
	logger *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &RegistrationService{
		cfg:       cfg,
		accounts:  accounts,
		tokens:    tokens,
		validator: validator,
		mailer:    mailer,
		events:    events,
		logger:    logger,
	}
}

// Register validates the signup, mails a 6-digit activation code, and returns
// the activation token the client must present alongside that code.
func (s *RegistrationService) Register(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return "", err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if err := s.validator.Validate(password); err != nil {
		return "", fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return "", ErrEmailAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	pending := domain.PendingRegistration{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	token, code, err := s.tokens.IssueActivationToken(pending)
	if err != nil {
		return "", fmt.Errorf("issue activation token: %w", err)
	}

	body, err := infraMail.ActivationEmail(username, code, formatTTL(s.cfg.Tokens.ActivationTTL))
	if err != nil {
		return "", err
	}
	if err := s.mailer.Send(ctx, email, "Activate your MemeMatch account", body); err != nil {
		return "", fmt.Errorf("send activation mail: %w", err)
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			Email:       email,
			Username:    username,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered event failed", zap.Error(err))
		}
	}

	return token, nil
}

// Activate verifies the token/code pair and creates the account. The new
// account is verified from birth and immediately receives a session pair.
func (s *RegistrationService) Activate(ctx context.Context, token, code string) (domain.Account, string, string, error) {
	pending, err := s.tokens.VerifyActivationToken(token, code)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrActivationCodeMismatch):
			return domain.Account{}, "", "", ErrActivationCodeMismatch
		default:
			return domain.Account{}, "", "", ErrInvalidActivationToken
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         domain.RoleUser,
		IsVerified:   true,
		Interests:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Account was activated between register and now, or the same
			// token was replayed.
			return domain.Account{}, "", "", ErrEmailAlreadyExists
		}
		return domain.Account{}, "", "", fmt.Errorf("create account: %w", err)
	}

	if s.events != nil {
		event := domain.AccountActivatedEvent{
			AccountID:   account.ID,
			Username:    account.Username,
			Email:       account.Email,
			ActivatedAt: now,
		}
		if err := s.events.PublishAccountActivated(ctx, event); err != nil {
			s.logger.Warn("publish account activated event failed", zap.Error(err))
		}
	}

	access, refresh, err := s.tokens.IssueSessionTokens(account.ID)
	if err != nil {
		return domain.Account{}, "", "", fmt.Errorf("issue session tokens: %w", err)
	}

	return account.Sanitized(), access, refresh, nil
}

func validateUsername(username string) error {
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters", ErrInvalidInput, minUsernameLength, maxUsernameLength)
	}
	for _, r := range username {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' && r != '.' {
			return fmt.Errorf("%w: username may only contain letters, digits, underscores, and dots", ErrInvalidInput)
		}
	}
	return nil
}

func formatTTL(ttl time.Duration) string {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	minutes := int(ttl.Minutes())
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
