package limiter

import (
	"context"
	"fmt"
	"time"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// Storage is a counter store with per-key expiry.
type Storage interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// DefaultAction applies to actions missing from the limits table.
var DefaultAction = ActionConfig{Limit: 100, Window: time.Minute}

type Limiter struct {
	storage Storage
	limits  map[string]ActionConfig
	now     func() time.Time
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(storage Storage, limits map[string]ActionConfig) *Limiter {
	return &Limiter{storage: storage, limits: limits, now: time.Now}
}

// Limits returns the configured table.
func (l *Limiter) Limits() map[string]ActionConfig {
	return l.limits
}

// Check counts one request by clientID for action within a fixed window.
func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := l.limits[action]
	if !ok {
		config = DefaultAction
	}

	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.storage.Incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.storage.TTL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	if ttl < 0 {
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl).Unix(),
		Limit:     config.Limit,
	}, nil
}
