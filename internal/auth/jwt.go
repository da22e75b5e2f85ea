package auth

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// CustomClaims contains the profile claims carried by the access token
type CustomClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTProvider resolves sessions from RS256 bearer tokens
type JWTProvider struct {
	validator *validator.Validator
	issuer    string
}

// NewAuth0Provider creates a JWTProvider that fetches signing keys from the
// tenant's JWKS endpoint
func NewAuth0Provider(domain, audience string) (*JWTProvider, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	return NewJWTProvider(provider.KeyFunc, issuerURL.String(), audience)
}

// NewJWTProvider creates a JWTProvider with the given key source
func NewJWTProvider(keyFunc func(context.Context) (interface{}, error), issuer, audience string) (*JWTProvider, error) {
	jwtValidator, err := validator.New(
		keyFunc,
		validator.RS256,
		issuer,
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &JWTProvider{validator: jwtValidator, issuer: issuer}, nil
}

// GetSession implements SessionProvider.
// Tokens that fail validation resolve to no session.
func (p *JWTProvider) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	token, ok := BearerToken(headers)
	if !ok {
		return nil, nil
	}

	claims, err := p.validator.ValidateToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("Token validation failed")
		return nil, nil
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, nil
	}
	registered := validatedClaims.RegisteredClaims

	session := &domain.Session{
		User: domain.User{ID: p.userID(registered.Subject)},
		Session: domain.SessionInfo{
			ID:        registered.ID,
			ExpiresAt: time.Unix(registered.Expiry, 0).UTC(),
		},
	}
	if session.Session.ID == "" {
		session.Session.ID = registered.Subject
	}

	if custom, ok := validatedClaims.CustomClaims.(*CustomClaims); ok {
		session.User.Email = custom.Email
		session.User.EmailVerified = custom.EmailVerified
		session.User.Name = custom.Name
		if custom.Picture != "" {
			picture := custom.Picture
			session.User.Image = &picture
		}
	}

	return session, nil
}

// userID maps the token subject to a user id. UUID subjects are used as is;
// provider-specific subjects such as "auth0|abc" get a stable name-based UUID.
func (p *JWTProvider) userID(subject string) uuid.UUID {
	if id, err := uuid.Parse(subject); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.issuer+subject))
}
