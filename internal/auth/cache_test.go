package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

var cacheNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func cachedSession(expiresIn time.Duration) *domain.Session {
	return &domain.Session{
		User:    domain.User{ID: uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"), Email: "lee@example.com", Name: "Lee"},
		Session: domain.SessionInfo{ID: "sess_9", ExpiresAt: cacheNow.Add(expiresIn)},
	}
}

func countingProvider(session *domain.Session, err error, calls *int) SessionProvider {
	return SessionProviderFunc(func(context.Context, http.Header) (*domain.Session, error) {
		*calls++
		return session, err
	})
}

func cookieHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Cookie", "better-auth.session_token=abc")
	return headers
}

func TestCachedProvider_MissStoresSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	session := cachedSession(time.Hour)
	calls := 0

	provider := NewCachedProvider(countingProvider(session, nil, &calls), db, 5*time.Minute)
	provider.now = func() time.Time { return cacheNow }

	key, _ := sessionCacheKey(cookieHeaders())
	data, err := json.Marshal(session)
	require.NoError(t, err)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")

	got, err := provider.GetSession(context.Background(), cookieHeaders())

	require.NoError(t, err)
	assert.Equal(t, session.User.ID, got.User.ID)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProvider_TTLCappedAtExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	session := cachedSession(90 * time.Second)
	calls := 0

	provider := NewCachedProvider(countingProvider(session, nil, &calls), db, 5*time.Minute)
	provider.now = func() time.Time { return cacheNow }

	key, _ := sessionCacheKey(cookieHeaders())
	data, _ := json.Marshal(session)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, 90*time.Second).SetVal("OK")

	_, err := provider.GetSession(context.Background(), cookieHeaders())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProvider_HitSkipsProvider(t *testing.T) {
	db, mock := redismock.NewClientMock()
	session := cachedSession(time.Hour)
	calls := 0

	provider := NewCachedProvider(countingProvider(nil, nil, &calls), db, 5*time.Minute)
	provider.now = func() time.Time { return cacheNow }

	key, _ := sessionCacheKey(cookieHeaders())
	data, _ := json.Marshal(session)
	mock.ExpectGet(key).SetVal(string(data))

	got, err := provider.GetSession(context.Background(), cookieHeaders())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "lee@example.com", got.User.Email)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProvider_NoSessionNotCached(t *testing.T) {
	db, mock := redismock.NewClientMock()
	calls := 0

	provider := NewCachedProvider(countingProvider(nil, nil, &calls), db, 5*time.Minute)
	key, _ := sessionCacheKey(cookieHeaders())
	mock.ExpectGet(key).RedisNil()

	got, err := provider.GetSession(context.Background(), cookieHeaders())

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProvider_RedisDownFallsThrough(t *testing.T) {
	db, mock := redismock.NewClientMock()
	session := cachedSession(time.Hour)
	calls := 0

	provider := NewCachedProvider(countingProvider(session, nil, &calls), db, 5*time.Minute)
	provider.now = func() time.Time { return cacheNow }

	key, _ := sessionCacheKey(cookieHeaders())
	data, _ := json.Marshal(session)
	mock.ExpectGet(key).SetErr(errors.New("connection refused"))
	mock.ExpectSet(key, data, 5*time.Minute).SetErr(errors.New("connection refused"))

	got, err := provider.GetSession(context.Background(), cookieHeaders())

	require.NoError(t, err)
	assert.Equal(t, session.User.ID, got.User.ID)
	assert.Equal(t, 1, calls)
}

func TestCachedProvider_ProviderErrorPropagates(t *testing.T) {
	db, mock := redismock.NewClientMock()
	calls := 0

	provider := NewCachedProvider(countingProvider(nil, errors.New("auth down"), &calls), db, time.Minute)
	key, _ := sessionCacheKey(cookieHeaders())
	mock.ExpectGet(key).RedisNil()

	_, err := provider.GetSession(context.Background(), cookieHeaders())
	require.Error(t, err)
}

func TestCachedProvider_CallerCancellationDoesNotFailLookup(t *testing.T) {
	db, mock := redismock.NewClientMock()
	session := cachedSession(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// the first caller goes away while the shared lookup is in flight
	next := SessionProviderFunc(func(lookupCtx context.Context, _ http.Header) (*domain.Session, error) {
		cancel()
		if err := lookupCtx.Err(); err != nil {
			return nil, err
		}
		return session, nil
	})
	provider := NewCachedProvider(next, db, 5*time.Minute)
	provider.now = func() time.Time { return cacheNow }

	key, _ := sessionCacheKey(cookieHeaders())
	data, _ := json.Marshal(session)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, data, 5*time.Minute).SetVal("OK")

	got, err := provider.GetSession(ctx, cookieHeaders())

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, session.User.ID, got.User.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionCacheKey(t *testing.T) {
	_, ok := sessionCacheKey(http.Header{})
	assert.False(t, ok)

	a, _ := sessionCacheKey(cookieHeaders())
	headers := http.Header{}
	headers.Set("Authorization", "Bearer abc")
	b, _ := sessionCacheKey(headers)

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, sessionCachePrefix)
	assert.NotContains(t, a, "abc")
}
