package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/result"
	"golang.org/x/time/rate"
)

// RateLimitConfig sizes the per-user token buckets
type RateLimitConfig struct {
	PerMinute int
	Burst     int
	// IdleTTL drops a user's bucket after this long without requests
	IdleTTL time.Duration
	// SweepInterval is how often idle buckets are looked for
	SweepInterval time.Duration
}

// RateLimiter hands out one token bucket per session user
type RateLimiter struct {
	cfg     RateLimitConfig
	limit   rate.Limit
	mu      sync.Mutex
	buckets map[uuid.UUID]*bucket
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// decision is the outcome of one request against a bucket
type decision struct {
	allowed    bool
	remaining  int
	retryAfter time.Duration
	resetAt    time.Time
}

// NewRateLimiter starts a limiter and its idle-bucket sweeper. Call Stop
// to end the sweeper.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		cfg:     cfg,
		limit:   rate.Limit(float64(cfg.PerMinute) / 60),
		buckets: make(map[uuid.UUID]*bucket),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (r *RateLimiter) take(userID uuid.UUID) decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[userID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(r.limit, r.cfg.Burst)}
		r.buckets[userID] = b
	}
	b.lastSeen = now

	reservation := b.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return decision{retryAfter: delay, resetAt: r.fullAt(b, now)}
	}

	return decision{
		allowed:   true,
		remaining: int(math.Max(0, math.Floor(b.limiter.TokensAt(now)))),
		resetAt:   r.fullAt(b, now),
	}
}

// fullAt is when the bucket will hold a full burst again
func (r *RateLimiter) fullAt(b *bucket, now time.Time) time.Time {
	missing := float64(r.cfg.Burst) - b.limiter.TokensAt(now)
	if missing <= 0 || r.limit <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / float64(r.limit) * float64(time.Second)))
}

func (r *RateLimiter) sweep() {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.dropIdle()
		case <-r.stop:
			return
		}
	}
}

func (r *RateLimiter) dropIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.cfg.IdleTTL)
	for userID, b := range r.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(r.buckets, userID)
		}
	}
}

// Stop ends the sweeper. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.once.Do(func() { close(r.stop) })
}

// RateLimitMiddleware limits requests per session user and reports the
// bucket state in X-RateLimit-* headers. It must run after SessionAuth;
// requests without a session pass through.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := GetUserID(c)
			if userID == uuid.Nil {
				return next(c)
			}

			d := rl.take(userID)
			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.PerMinute))
			header.Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(d.resetAt.Unix(), 10))

			if d.allowed {
				return next(c)
			}

			seconds := int(math.Ceil(d.retryAfter.Seconds()))
			header.Set("Retry-After", strconv.Itoa(seconds))
			log.Warn().
				Str("user_id", userID.String()).
				Int("retry_after", seconds).
				Msg("Rate limit exceeded")

			return writeFailure(c, result.NewFailure(
				CodeRateLimited,
				fmt.Sprintf("Too many requests. Please retry after %d seconds.", seconds),
				http.StatusTooManyRequests,
			))
		}
	}
}
