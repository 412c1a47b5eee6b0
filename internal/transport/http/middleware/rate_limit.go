package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const (
	rateLimitProblemType  = "https://logitrack.example.com/problems/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// IdentifierFunc extracts the identifier a rule is scoped to. Returning false
// skips the rule for the request.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule configures a sliding-window limit for one identifier.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter enforces RateLimitRules against a shared window store.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

type windowState struct {
	allowed    bool
	limit      int
	remaining  int
	reset      time.Time
	retryAfter time.Duration
}

// ProblemDetails is the RFC 9457 payload returned when a limit is exceeded.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// NewRateLimiter builds a rate limiter backed by store.
func NewRateLimiter(store port.RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for window calculations.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier scopes a rule to the client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

// RateLimit returns a middleware enforcing rules. Store failures fail open.
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
		var tightest *windowState

		for _, rule := range active {
			identifier, ok := rule.Identifier(c)
			if !ok || identifier == "" {
				continue
			}

			state, err := rl.evaluate(c, rule, rule.Name+":"+identifier, now)
			if err != nil {
				rl.logger.Warn("rate limit check failed", zap.String("rule", rule.Name), zap.Error(err))
				continue
			}

			if !state.allowed {
				rl.applyHeaders(c, state)
				rl.reject(c, state)
				return
			}
			if tightest == nil || state.remaining < tightest.remaining ||
				(state.remaining == tightest.remaining && state.reset.Before(tightest.reset)) {
				snapshot := state
				tightest = &snapshot
			}
		}

		if tightest != nil {
			rl.applyHeaders(c, *tightest)
		}
		c.Next()
	}
}

func (rl *RateLimiter) evaluate(c *gin.Context, rule RateLimitRule, key string, now time.Time) (windowState, error) {
	ctx := c.Request.Context()

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return windowState{}, fmt.Errorf("trim window: %w", err)
	}

	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return windowState{}, fmt.Errorf("count attempts: %w", err)
	}

	oldest, hasAttempts, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return windowState{}, fmt.Errorf("oldest attempt: %w", err)
	}

	state := windowState{allowed: true, limit: rule.Limit, reset: now.Add(rule.Window)}
	if hasAttempts {
		state.reset = oldest.Add(rule.Window)
	}
	state.retryAfter = max(state.reset.Sub(now), 0)

	if count >= rule.Limit {
		state.allowed = false
		return state, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return windowState{}, fmt.Errorf("record attempt: %w", err)
	}
	state.remaining = max(rule.Limit-count-1, 0)

	return state, nil
}

func (rl *RateLimiter) applyHeaders(c *gin.Context, state windowState) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(state.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(state.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(state.reset.Unix(), 10))
	if !state.allowed {
		headers.Set("Retry-After", strconv.Itoa(retrySeconds(state)))
	}
}

func (rl *RateLimiter) reject(c *gin.Context, state windowState) {
	seconds := retrySeconds(state)
	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	})
}

func retrySeconds(state windowState) int {
	return int(math.Ceil(state.retryAfter.Seconds()))
}
