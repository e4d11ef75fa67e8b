package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rateLimitProblemType  = "https://api.memematch.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// RateLimitStore is the attempt log the limiter evaluates rules against.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// IdentifierFunc derives the key a rule counts attempts under, typically the
// client IP. Returning false skips the rule for this request.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule is one sliding-window limit.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter evaluates sliding-window rules against a shared attempt store.
// Store failures fail open: an unreachable redis must not take login down.
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

type limitDecision struct {
	allowed    bool
	limit      int
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

// ProblemDetails is the RFC 9457 payload returned on 429 responses.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// NewRateLimiter builds a limiter over the given store.
func NewRateLimiter(store RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock injects a custom clock for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier scopes a rule by client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		if ip == "" {
			return "", false
		}
		return ip, true
	}
}

// RateLimit returns a middleware enforcing the provided rules. The first
// exceeded rule rejects the request; otherwise the headers reflect the rule
// closest to exhaustion.
func (rl *RateLimiter) RateLimit(rules ...RateLimitRule) gin.HandlerFunc {
	active := make([]RateLimitRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			continue
		}
		if rule.Name == "" {
			rule.Name = "default"
		}
		active = append(active, rule)
	}

	return func(c *gin.Context) {
		if len(active) == 0 || rl.store == nil {
			c.Next()
			return
		}

		now := rl.now()
		var tightest *limitDecision

		for _, rule := range active {
			identifier, ok := rule.Identifier(c)
			if !ok || identifier == "" {
				continue
			}

			key := fmt.Sprintf("%s:%s", rule.Name, identifier)

			decision, err := rl.evaluate(c.Request.Context(), rule, key, now)
			if err != nil {
				rl.logger.Warn("rate limit check failed",
					zap.String("rule", rule.Name),
					zap.String("identifier", identifier),
					zap.Error(err))
				continue
			}

			if tightest == nil || tighter(*tightest, decision) {
				snapshot := decision
				tightest = &snapshot
			}

			if !decision.allowed {
				rl.writeHeaders(c, decision)
				rl.reject(c, decision)
				return
			}
		}

		if tightest != nil {
			rl.writeHeaders(c, *tightest)
		}

		c.Next()
	}
}

func (rl *RateLimiter) evaluate(ctx context.Context, rule RateLimitRule, key string, now time.Time) (limitDecision, error) {
	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return limitDecision{}, err
	}

	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return limitDecision{}, err
	}

	oldest, hasAttempts, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return limitDecision{}, err
	}

	decision := limitDecision{
		allowed: true,
		limit:   rule.Limit,
		reset:   now.Add(rule.Window),
	}
	if hasAttempts {
		decision.reset = oldest.Add(rule.Window)
	}

	if count >= rule.Limit {
		decision.allowed = false
		decision.retryAfter = nonNegative(decision.reset.Sub(now))
		return decision, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return limitDecision{}, err
	}

	decision.remaining = rule.Limit - count - 1
	if decision.remaining < 0 {
		decision.remaining = 0
	}
	decision.retryAfter = nonNegative(decision.reset.Sub(now))

	if !hasAttempts {
		decision.reset = now.Add(rule.Window)
	}

	return decision, nil
}

// tighter reports whether candidate should replace current as the decision
// the response headers describe.
func tighter(current, candidate limitDecision) bool {
	if !candidate.allowed && current.allowed {
		return true
	}

	if candidate.allowed == current.allowed {
		if candidate.remaining < current.remaining {
			return true
		}
		if candidate.remaining == current.remaining && candidate.reset.Before(current.reset) {
			return true
		}
	}

	return false
}

func (rl *RateLimiter) writeHeaders(c *gin.Context, decision limitDecision) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(decision.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.reset.Unix(), 10))

	if !decision.allowed {
		headers.Set("Retry-After", strconv.Itoa(ceilSeconds(decision.retryAfter)))
	}
}

func (rl *RateLimiter) reject(c *gin.Context, decision limitDecision) {
	retrySeconds := ceilSeconds(decision.retryAfter)

	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", retrySeconds),
		Instance:   instance,
		RetryAfter: retrySeconds,
		TraceID:    GetTraceID(c),
	})
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func ceilSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}
