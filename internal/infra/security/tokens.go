package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/config"
)

var (
	// ErrTokenInvalid indicates the token is malformed, tampered with, or expired.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrActivationCodeMismatch indicates the supplied activation code does not
	// match the one embedded in the activation token.
	ErrActivationCodeMismatch = errors.New("activation code mismatch")
)

const (
	defaultAccessTTL     = 15 * time.Minute
	defaultRefreshTTL    = 7 * 24 * time.Hour
	defaultActivationTTL = 10 * time.Minute

	activationCodeLength = 6
)

// GenerateNumericCode returns a uniformly random numeric string of the given
// length. Bytes of 250 and above are rejected so no digit is over-represented.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	digits := make([]byte, 0, length)
	buf := make([]byte, 1)
	for len(digits) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		if buf[0] >= 250 {
			continue
		}
		digits = append(digits, '0'+buf[0]%10)
	}

	return string(digits), nil
}

// sessionClaims binds an account id to a session token.
type sessionClaims struct {
	AccountID string `json:"uid"`
	jwt.RegisteredClaims
}

// activationClaims carries a pending registration plus its activation code.
type activationClaims struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"pwh"`
	Code         string `json:"code"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the three token kinds. Access, refresh,
// and activation tokens are each signed with an independent secret so a leak
// of one never compromises the others. Verification is a pure computation.
type TokenService struct {
	cfg config.TokenSettings
	now func() time.Time
}

// NewTokenService constructs a TokenService from the signing configuration.
func NewTokenService(cfg config.TokenSettings) (*TokenService, error) {
	if strings.TrimSpace(cfg.AccessSecret) == "" ||
		strings.TrimSpace(cfg.RefreshSecret) == "" ||
		strings.TrimSpace(cfg.ActivationSecret) == "" {
		return nil, fmt.Errorf("token service: signing secrets are required")
	}

	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.ActivationTTL <= 0 {
		cfg.ActivationTTL = defaultActivationTTL
	}

	return &TokenService{cfg: cfg, now: time.Now}, nil
}

// WithClock injects a custom clock (primarily for testing).
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// RefreshTTL returns the configured refresh token lifetime.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

// IssueActivationToken embeds the pending registration and a fresh 6-digit
// code into a signed token with the activation lifetime. The code is returned
// separately so it can be delivered out of band.
func (s *TokenService) IssueActivationToken(pending domain.PendingRegistration) (string, string, error) {
	code, err := GenerateNumericCode(activationCodeLength)
	if err != nil {
		return "", "", fmt.Errorf("generate activation code: %w", err)
	}

	now := s.now().UTC()
	claims := activationClaims{
		Username:     pending.Username,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Code:         code,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   pending.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.ActivationTTL)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.ActivationSecret))
	if err != nil {
		return "", "", fmt.Errorf("sign activation token: %w", err)
	}

	return signed, code, nil
}

// VerifyActivationToken validates the token signature and expiry, then checks
// the supplied code against the embedded one.
func (s *TokenService) VerifyActivationToken(token, suppliedCode string) (domain.PendingRegistration, error) {
	claims := &activationClaims{}
	if err := s.parse(token, claims, s.cfg.ActivationSecret); err != nil {
		return domain.PendingRegistration{}, err
	}

	if strings.TrimSpace(suppliedCode) != claims.Code {
		return domain.PendingRegistration{}, ErrActivationCodeMismatch
	}

	return domain.PendingRegistration{
		Username:     claims.Username,
		Email:        claims.Email,
		PasswordHash: claims.PasswordHash,
	}, nil
}

// IssueSessionTokens signs an access/refresh pair bound to the account id.
func (s *TokenService) IssueSessionTokens(accountID string) (string, string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", "", fmt.Errorf("account id is required")
	}

	access, err := s.issueSessionToken(accountID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.issueSessionToken(accountID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	return access, refresh, nil
}

// VerifyAccessToken resolves the account id asserted by an access token.
func (s *TokenService) VerifyAccessToken(token string) (string, error) {
	return s.verifySessionToken(token, s.cfg.AccessSecret)
}

// VerifyRefreshToken resolves the account id asserted by a refresh token.
func (s *TokenService) VerifyRefreshToken(token string) (string, error) {
	return s.verifySessionToken(token, s.cfg.RefreshSecret)
}

func (s *TokenService) issueSessionToken(accountID, secret string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := sessionClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *TokenService) verifySessionToken(token, secret string) (string, error) {
	claims := &sessionClaims{}
	if err := s.parse(token, claims, secret); err != nil {
		return "", err
	}

	if strings.TrimSpace(claims.AccountID) == "" {
		return "", ErrTokenInvalid
	}

	return claims.AccountID, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims, secret string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenInvalid
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || parsed == nil || !parsed.Valid {
		return ErrTokenInvalid
	}

	return nil
}
