package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
)

const strongTestPassword = "Sup3r!SecurePass"

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{Name: "memematch-api", Env: "test"},
		Tokens: config.TokenSettings{
			AccessSecret:     "access-secret-for-tests",
			RefreshSecret:    "refresh-secret-for-tests",
			ActivationSecret: "activation-secret-for-tests",
			AccessTTL:        15 * time.Minute,
			RefreshTTL:       7 * 24 * time.Hour,
			ActivationTTL:    10 * time.Minute,
			Issuer:           "memematch-test",
		},
	}
}

func newTestTokenService(t *testing.T) *security.TokenService {
	t.Helper()
	tokens, err := security.NewTokenService(testConfig().Tokens)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	return tokens
}

func newRegistrationService(t *testing.T, accounts *mockAccountRepository, mailer *mockMailSender, events *mockEventPublisher) *RegistrationService {
	t.Helper()
	return NewRegistrationService(
		testConfig(),
		accounts,
		newTestTokenService(t),
		nil,
		mailer,
		events,
		zaptest.NewLogger(t),
	)
}

func TestRegisterSendsActivationMail(t *testing.T) {
	accounts := newMockAccountRepository()
	mailer := &mockMailSender{}
	events := &mockEventPublisher{}
	svc := newRegistrationService(t, accounts, mailer, events)

	token, err := svc.Register(context.Background(), "meme_lord", "Lord@Example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected activation token")
	}

	// No account row yet; the registration lives only in the token.
	if accounts.createCalls != 0 {
		t.Fatalf("expected no account creation, got %d", accounts.createCalls)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "lord@example.com" {
		t.Fatalf("mail sent to %q", mailer.sent[0].to)
	}
	if !strings.Contains(mailer.sent[0].body, "meme_lord") {
		t.Fatal("mail body missing username")
	}

	if len(events.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(events.registered))
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	accounts := newMockAccountRepository(domain.Account{
		ID:    "acct-1",
		Email: "taken@example.com",
	})
	svc := newRegistrationService(t, accounts, &mockMailSender{}, &mockEventPublisher{})

	_, err := svc.Register(context.Background(), "meme_lord", "taken@example.com", strongTestPassword)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newRegistrationService(t, newMockAccountRepository(), &mockMailSender{}, &mockEventPublisher{})

	_, err := svc.Register(context.Background(), "meme_lord", "user@example.com", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegisterRejectsBadUsernameAndEmail(t *testing.T) {
	svc := newRegistrationService(t, newMockAccountRepository(), &mockMailSender{}, &mockEventPublisher{})

	if _, err := svc.Register(context.Background(), "x", "user@example.com", strongTestPassword); err == nil {
		t.Fatal("expected error for short username")
	}
	if _, err := svc.Register(context.Background(), "has space", "user@example.com", strongTestPassword); err == nil {
		t.Fatal("expected error for invalid username characters")
	}
	if _, err := svc.Register(context.Background(), "meme_lord", "not-an-email", strongTestPassword); err == nil {
		t.Fatal("expected error for invalid email")
	}
}

func TestActivateCreatesVerifiedAccount(t *testing.T) {
	accounts := newMockAccountRepository()
	mailer := &mockMailSender{}
	events := &mockEventPublisher{}
	svc := newRegistrationService(t, accounts, mailer, events)

	token, err := svc.Register(context.Background(), "meme_lord", "lord@example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	code := extractCode(t, mailer.sent[0].body)

	account, access, refresh, err := svc.Activate(context.Background(), token, code)
	if err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	if !account.IsVerified {
		t.Fatal("expected verified account")
	}
	if account.Role != domain.RoleUser {
		t.Fatalf("unexpected role %q", account.Role)
	}
	if account.PasswordHash != "" {
		t.Fatal("activate must not return the password hash")
	}
	if access == "" || refresh == "" {
		t.Fatal("expected session tokens")
	}

	stored := accounts.createdAccount
	if stored.Email != "lord@example.com" || stored.Username != "meme_lord" {
		t.Fatalf("unexpected stored account %+v", stored)
	}
	if ok, _ := security.VerifyPassword(strongTestPassword, stored.PasswordHash); !ok {
		t.Fatal("stored hash does not verify against the original password")
	}

	if len(events.activated) != 1 {
		t.Fatalf("expected one activated event, got %d", len(events.activated))
	}
}

func TestActivateWrongCode(t *testing.T) {
	mailer := &mockMailSender{}
	svc := newRegistrationService(t, newMockAccountRepository(), mailer, &mockEventPublisher{})

	token, err := svc.Register(context.Background(), "meme_lord", "lord@example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	code := extractCode(t, mailer.sent[0].body)
	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}

	if _, _, _, err := svc.Activate(context.Background(), token, wrong); !errors.Is(err, ErrActivationCodeMismatch) {
		t.Fatalf("expected ErrActivationCodeMismatch, got %v", err)
	}
}

func TestActivateGarbageToken(t *testing.T) {
	svc := newRegistrationService(t, newMockAccountRepository(), &mockMailSender{}, &mockEventPublisher{})

	if _, _, _, err := svc.Activate(context.Background(), "not-a-token", "123456"); !errors.Is(err, ErrInvalidActivationToken) {
		t.Fatalf("expected ErrInvalidActivationToken, got %v", err)
	}
}

func TestActivateReplayedToken(t *testing.T) {
	accounts := newMockAccountRepository()
	mailer := &mockMailSender{}
	svc := newRegistrationService(t, accounts, mailer, &mockEventPublisher{})

	token, err := svc.Register(context.Background(), "meme_lord", "lord@example.com", strongTestPassword)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	code := extractCode(t, mailer.sent[0].body)

	if _, _, _, err := svc.Activate(context.Background(), token, code); err != nil {
		t.Fatalf("first activation returned error: %v", err)
	}
	if _, _, _, err := svc.Activate(context.Background(), token, code); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists on replay, got %v", err)
	}
}

// extractCode pulls the 6-digit code out of the rendered activation mail.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	for i := 0; i+6 <= len(body); i++ {
		candidate := body[i : i+6]
		digits := true
		for _, r := range candidate {
			if r < '0' || r > '9' {
				digits = false
				break
			}
		}
		if digits {
			return candidate
		}
	}
	t.Fatal("no code found in mail body")
	return ""
}
