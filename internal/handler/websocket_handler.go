package handler

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/auth"
	"github.com/tivecs/finance/finance-backend/internal/result"
	"github.com/tivecs/finance/finance-backend/internal/websocket"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	sessions       auth.SessionProvider
	allowedOrigins map[string]bool
	stream         websocket.StreamConfig
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, sessions auth.SessionProvider, allowedOrigins []string, stream websocket.StreamConfig) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		sessions:       sessions,
		allowedOrigins: originMap,
		stream:         stream,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// non-browser clients send no Origin
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS godoc
// @Summary Subscribe to expense changes
// @Description Upgrades to a WebSocket that receives the caller's expense.created, expense.updated and expense.deleted events. Browsers that cannot set headers pass the bearer token in the token query parameter.
// @Tags events
// @Security BearerAuth
// @Param token query string false "Bearer token"
// @Success 101
// @Failure 401 {object} FailureResponse
// @Router /ws [get]
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	headers := c.Request().Header.Clone()
	if token := c.QueryParam("token"); token != "" && headers.Get("Authorization") == "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	session, err := h.sessions.GetSession(c.Request().Context(), headers)
	if err != nil {
		return respondInternal(c, err, "WebSocket session lookup failed")
	}
	if session == nil {
		log.Debug().Msg("WebSocket connection rejected: no session")
		return respondFailure(c, result.Unauthorized)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the error response
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return nil
	}

	client := websocket.NewClient(conn, session.User.ID, h.stream)
	logger := log.With().
		Str("owner_id", session.User.ID.String()).
		Str("client_id", client.ID()).
		Logger()

	logger.Info().Msg("WebSocket client connected")
	// the connection is hijacked, so the request lives as long as the stream
	client.Serve(c.Request().Context(), h.hub)
	logger.Info().Msg("WebSocket client disconnected")

	return nil
}
