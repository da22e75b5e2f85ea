package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/tivecs/finance/finance-backend/internal/middleware"
	"github.com/tivecs/finance/finance-backend/internal/service"
	"github.com/tivecs/finance/finance-backend/internal/testutil"
	"github.com/tivecs/finance/finance-backend/internal/websocket"
)

// testServer wires the real router over in-memory repositories
type testServer struct {
	e         *echo.Echo
	expenses  *testutil.MockExpenseRepository
	users     *testutil.MockUserRepository
	sessions  *testutil.MockSessionProvider
	publisher *testutil.RecordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		expenses:  testutil.NewMockExpenseRepository(),
		users:     testutil.NewMockUserRepository(),
		sessions:  testutil.NewMockSessionProvider(),
		publisher: &testutil.RecordingPublisher{},
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{PerMinute: 10000, Burst: 1000})
	t.Cleanup(limiter.Stop)

	s.e = echo.New()
	s.e.HTTPErrorHandler = HTTPErrorHandler
	RegisterRoutes(s.e,
		middleware.SessionAuth(s.sessions),
		middleware.RateLimitMiddleware(limiter),
		"http://localhost:8080",
		NewAuthHandler(service.NewAuthService(s.users)),
		NewExpenseHandler(service.NewExpenseService(s.expenses, s.publisher)),
		NewWebSocketHandler(websocket.NewHub(), s.sessions, nil, websocket.StreamConfig{}),
	)
	return s
}

// do sends a request with an optional bearer token and JSON body
func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
