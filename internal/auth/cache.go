package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

const sessionCachePrefix = "session:"

// CachedProvider caches resolved sessions in Redis keyed by a hash of the
// request credentials. Only positive lookups are cached, and never past the
// session's own expiry. Redis failures fall through to the wrapped provider.
type CachedProvider struct {
	next  SessionProvider
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	now   func() time.Time
}

// NewCachedProvider wraps next with a Redis session cache
func NewCachedProvider(next SessionProvider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		now:  time.Now,
	}
}

// GetSession implements SessionProvider
func (p *CachedProvider) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	key, ok := sessionCacheKey(headers)
	if !ok {
		return nil, nil
	}

	if session := p.lookup(ctx, key); session != nil {
		return session, nil
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		// coalesced callers share this lookup, so one caller's cancellation must not fail the rest
		shared := context.WithoutCancel(ctx)
		session, err := p.next.GetSession(shared, headers)
		if err != nil || session == nil {
			return session, err
		}
		p.store(shared, key, session)
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	session, _ := v.(*domain.Session)
	return session, nil
}

func (p *CachedProvider) lookup(ctx context.Context, key string) *domain.Session {
	data, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Session cache read failed")
		}
		return nil
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		log.Warn().Err(err).Msg("Discarding malformed cached session")
		return nil
	}
	if !session.Session.ExpiresAt.After(p.now()) {
		return nil
	}
	return &session
}

func (p *CachedProvider) store(ctx context.Context, key string, session *domain.Session) {
	ttl := p.ttl
	if remaining := session.Session.ExpiresAt.Sub(p.now()); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode session for cache")
		return
	}
	if err := p.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Session cache write failed")
	}
}

// sessionCacheKey hashes the credential headers so raw tokens never reach Redis
func sessionCacheKey(headers http.Header) (string, bool) {
	authorization, cookie := headers.Get("Authorization"), headers.Get("Cookie")
	if authorization == "" && cookie == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(authorization + "\n" + cookie))
	return sessionCachePrefix + hex.EncodeToString(sum[:]), true
}
