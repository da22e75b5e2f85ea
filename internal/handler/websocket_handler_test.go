package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tivecs/finance/finance-backend/internal/event"
	"github.com/tivecs/finance/finance-backend/internal/testutil"
	"github.com/tivecs/finance/finance-backend/internal/websocket"
)

var testAllowedOrigins = []string{"http://localhost:3000", "https://finance.example.com"}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), testutil.NewMockSessionProvider(), testAllowedOrigins, websocket.StreamConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
}

func TestWebSocketHandler_HandleWS_UnknownToken(t *testing.T) {
	e := echo.New()
	h := NewWebSocketHandler(websocket.NewHub(), testutil.NewMockSessionProvider(), testAllowedOrigins, websocket.StreamConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ws?token=unknown", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebSocketHandler_HandleWS_ProviderError(t *testing.T) {
	e := echo.New()
	sessions := testutil.NewMockSessionProvider()
	sessions.Err = errors.New("auth server down")
	h := NewWebSocketHandler(websocket.NewHub(), sessions, testAllowedOrigins, websocket.StreamConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ws?token=any", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebSocketHandler_HandleWS_ValidToken_NoUpgrade(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	sessions := testutil.NewMockSessionProvider()
	session := sessions.AddUser("valid")
	h := NewWebSocketHandler(hub, sessions, testAllowedOrigins, websocket.StreamConfig{})

	// not an upgrade request, so auth passes and the upgrader rejects it
	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, h.HandleWS(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, hub.ClientCount(session.User.ID))
}

func TestWebSocketHandler_HandleWS_ReceivesOwnerEvents(t *testing.T) {
	hub := websocket.NewHub()
	sessions := testutil.NewMockSessionProvider()
	session := sessions.AddUser("valid")
	h := NewWebSocketHandler(hub, sessions, testAllowedOrigins, websocket.StreamConfig{})

	e := echo.New()
	e.GET("/ws", h.HandleWS)
	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=valid"
	conn, _, err := ws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount(session.User.ID) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(session.User.ID, event.ExpenseCreated(map[string]string{"id": "abc"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"expense.created"`)
	assert.Contains(t, string(msg), `"id":"abc"`)
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := NewWebSocketHandler(websocket.NewHub(), testutil.NewMockSessionProvider(), testAllowedOrigins, websocket.StreamConfig{})

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://finance.example.com", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
