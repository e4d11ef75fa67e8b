package security

import (
	"errors"
	"testing"
	"time"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
)

func testTokenSettings() config.TokenSettings {
	return config.TokenSettings{
		AccessSecret:     "access-secret-for-tests",
		RefreshSecret:    "refresh-secret-for-tests",
		ActivationSecret: "activation-secret-for-tests",
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		ActivationTTL:    10 * time.Minute,
		Issuer:           "memematch-test",
	}
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	if err != nil {
		t.Fatalf("GenerateNumericCode returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit character in code %q", code)
		}
	}

	if _, err := GenerateNumericCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}

func TestGenerateNumericCodeCoversAllDigits(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			seen[r] = true
		}
	}

	if len(seen) != 10 {
		t.Fatalf("expected every digit to occur across 200 codes, saw %d distinct", len(seen))
	}
}

func TestNewTokenServiceRequiresSecrets(t *testing.T) {
	cfg := testTokenSettings()
	cfg.RefreshSecret = " "
	if _, err := NewTokenService(cfg); err == nil {
		t.Fatal("expected error when a signing secret is missing")
	}
}

func TestActivationTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	pending := domain.PendingRegistration{
		Username:     "meme_lord",
		Email:        "lord@example.com",
		PasswordHash: "argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}

	token, code, err := svc.IssueActivationToken(pending)
	if err != nil {
		t.Fatalf("IssueActivationToken returned error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected a 6-digit code, got %q", code)
	}

	got, err := svc.VerifyActivationToken(token, code)
	if err != nil {
		t.Fatalf("VerifyActivationToken returned error: %v", err)
	}
	if got != pending {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pending)
	}
}

func TestVerifyActivationTokenCodeMismatch(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, code, err := svc.IssueActivationToken(domain.PendingRegistration{
		Username: "u", Email: "u@example.com", PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("IssueActivationToken returned error: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}

	if _, err := svc.VerifyActivationToken(token, wrong); !errors.Is(err, ErrActivationCodeMismatch) {
		t.Fatalf("expected ErrActivationCodeMismatch, got %v", err)
	}
}

func TestVerifyActivationTokenExpired(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, code, err := svc.IssueActivationToken(domain.PendingRegistration{
		Username: "u", Email: "u@example.com", PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("IssueActivationToken returned error: %v", err)
	}

	svc.WithClock(func() time.Time { return time.Now().Add(11 * time.Minute) })

	if _, err := svc.VerifyActivationToken(token, code); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestSessionTokensRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	access, refresh, err := svc.IssueSessionTokens("acct-123")
	if err != nil {
		t.Fatalf("IssueSessionTokens returned error: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	if id, err := svc.VerifyAccessToken(access); err != nil || id != "acct-123" {
		t.Fatalf("VerifyAccessToken = (%q, %v), want acct-123", id, err)
	}
	if id, err := svc.VerifyRefreshToken(refresh); err != nil || id != "acct-123" {
		t.Fatalf("VerifyRefreshToken = (%q, %v), want acct-123", id, err)
	}
}

func TestSessionTokensSecretsAreIndependent(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	access, refresh, err := svc.IssueSessionTokens("acct-123")
	if err != nil {
		t.Fatalf("IssueSessionTokens returned error: %v", err)
	}

	if _, err := svc.VerifyAccessToken(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := svc.VerifyRefreshToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	access, _, err := svc.IssueSessionTokens("acct-123")
	if err != nil {
		t.Fatalf("IssueSessionTokens returned error: %v", err)
	}

	svc.WithClock(func() time.Time { return time.Now().Add(16 * time.Minute) })

	if _, err := svc.VerifyAccessToken(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired access token, got %v", err)
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc, err := NewTokenService(testTokenSettings())
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	for _, token := range []string{"", "   ", "not.a.jwt", "a.b"} {
		if _, err := svc.VerifyAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}
