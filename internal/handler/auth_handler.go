package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/middleware"
	"github.com/tivecs/finance/finance-backend/internal/result"
	"github.com/tivecs/finance/finance-backend/internal/service"
	"github.com/tivecs/finance/finance-backend/internal/util"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Image         *string `json:"image"`
	EmailVerified bool    `json:"emailVerified"`
}

// SessionResponse represents the session a request was authenticated with
type SessionResponse struct {
	ID        string `json:"id"`
	ExpiresAt string `json:"expiresAt"`
}

// MeResponse represents the current session
type MeResponse struct {
	User    UserResponse    `json:"user"`
	Session SessionResponse `json:"session"`
}

// AuthCallbackResponse represents the response from the auth callback
type AuthCallbackResponse struct {
	User      UserResponse `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID.String(),
		Email:         u.Email,
		Name:          u.Name,
		Image:         u.Image,
		EmailVerified: u.EmailVerified,
	}
}

// Callback godoc
// @Summary Sync the signed-in user
// @Description Creates or refreshes the local user row for the session's identity. Clients call it once after sign-in.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthCallbackResponse
// @Failure 401 {object} FailureResponse
// @Router /auth/callback [post]
func (h *AuthHandler) Callback(c echo.Context) error {
	session := middleware.GetSession(c)
	if session == nil {
		return respondFailure(c, result.Unauthorized)
	}

	synced, err := h.authService.SyncUser(c.Request().Context(), session)
	if err != nil {
		return respondInternal(c, err, "Failed to sync user")
	}

	return c.JSON(http.StatusOK, AuthCallbackResponse{
		User:      newUserResponse(synced.User),
		IsNewUser: synced.IsNewUser,
	})
}

// Me godoc
// @Summary Current session
// @Description Returns the user and session the request was authenticated with
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} FailureResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session := middleware.GetSession(c)
	if session == nil {
		return respondFailure(c, result.Unauthorized)
	}

	return c.JSON(http.StatusOK, MeResponse{
		User: newUserResponse(&session.User),
		Session: SessionResponse{
			ID:        session.Session.ID,
			ExpiresAt: util.FormatTimestamp(session.Session.ExpiresAt),
		},
	})
}
