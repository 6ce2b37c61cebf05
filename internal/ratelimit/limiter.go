package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"

	"github.com/richardprab/auroramart/internal/common"
)

// Result is the outcome of one rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts a hit for key and reports whether it is within budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// SlidingWindow is an exact sliding window backed by a Redis sorted set. It
// guards the checkout endpoint where bursts at a window boundary matter.
type SlidingWindow struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
}

func (l SlidingWindow) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	until := now.Add(l.Window)
	if l.Client == nil || l.Max <= 0 || l.Window <= 0 {
		return Result{Allowed: true, Limit: l.Max, Remaining: l.Max, Reset: until}, nil
	}
	score := float64(now.UnixNano())
	cutoff := float64(now.Add(-l.Window).UnixNano())
	redisKey := l.Prefix + key
	member := fmt.Sprintf("%s:%s", key, uuid.NewString())

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%f", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: score, Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{Limit: l.Max, Reset: until}, err
	}
	current := int(countCmd.Val())
	return Result{
		Allowed:   current <= l.Max,
		Limit:     l.Max,
		Remaining: max(l.Max-current, 0),
		Reset:     until,
	}, nil
}

// FixedWindow adapts ulule/limiter for the coarse per-client API budget.
type FixedWindow struct {
	L *limiter.Limiter
}

// NewFixedWindow builds a limiter from a rate such as "300-M".
func NewFixedWindow(store limiter.Store, formatted string) (*FixedWindow, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: parse rate %q: %w", formatted, err)
	}
	return &FixedWindow{L: limiter.New(store, rate)}, nil
}

func (f *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	lc, err := f.L.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:   !lc.Reached,
		Limit:     int(lc.Limit),
		Remaining: int(lc.Remaining),
		Reset:     time.Unix(lc.Reset, 0),
	}, nil
}

// ByClientIP keys on the forwarded or remote client address.
func ByClientIP(r *http.Request) string {
	return common.ClientIP(r)
}

// ByCustomer keys on the authenticated customer, falling back to the client IP.
func ByCustomer(r *http.Request) string {
	if id, ok := common.CustomerID(r.Context()); ok {
		return "customer:" + id.String()
	}
	return "ip:" + ByClientIP(r)
}
