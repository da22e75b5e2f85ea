package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

const betterAuthSessionPath = "/api/auth/get-session"

// forwardedHeaders are the request headers the auth server needs to find a session
var forwardedHeaders = []string{"Cookie", "Authorization"}

// BetterAuthProvider looks sessions up on a Better Auth server
type BetterAuthProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewBetterAuthProvider creates a provider for the auth server at baseURL
func NewBetterAuthProvider(baseURL string, httpClient *http.Client) *BetterAuthProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &BetterAuthProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type betterAuthSessionResponse struct {
	Session struct {
		ID        string    `json:"id"`
		UserID    string    `json:"userId"`
		ExpiresAt time.Time `json:"expiresAt"`
	} `json:"session"`
	User struct {
		ID            string  `json:"id"`
		Email         string  `json:"email"`
		Name          string  `json:"name"`
		Image         *string `json:"image"`
		EmailVerified bool    `json:"emailVerified"`
	} `json:"user"`
}

// GetSession implements SessionProvider
func (p *BetterAuthProvider) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+betterAuthSessionPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}

	forwarded := false
	for _, name := range forwardedHeaders {
		if v := headers.Get(name); v != "" {
			req.Header.Set(name, v)
			forwarded = true
		}
	}
	if !forwarded {
		return nil, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request session: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// the server answers 200 with a JSON null when no session matches
	var payload *betterAuthSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}
	if payload == nil || payload.User.ID == "" {
		return nil, nil
	}

	userID, err := uuid.Parse(payload.User.ID)
	if err != nil {
		log.Warn().Str("user_id", payload.User.ID).Msg("Auth server returned a non-UUID user id")
		return nil, fmt.Errorf("parse user id: %w", err)
	}

	return &domain.Session{
		User: domain.User{
			ID:            userID,
			Email:         payload.User.Email,
			Name:          payload.User.Name,
			Image:         payload.User.Image,
			EmailVerified: payload.User.EmailVerified,
		},
		Session: domain.SessionInfo{
			ID:        payload.Session.ID,
			ExpiresAt: payload.Session.ExpiresAt.UTC(),
		},
	}, nil
}
