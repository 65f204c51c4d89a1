// Package auth validates bearer tokens issued by the account service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dkeye/Vibesync/internal/domain"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrNotConfigured = errors.New("token validator is not configured")
)

// Config holds token verification settings, read from the environment.
type Config struct {
	Secret   string        `env:"VIBESYNC_JWT_SECRET"`
	Issuer   string        `env:"VIBESYNC_JWT_ISSUER"`
	Audience string        `env:"VIBESYNC_JWT_AUDIENCE"`
	Leeway   time.Duration `env:"VIBESYNC_JWT_LEEWAY" envDefault:"30s"`
}

// LoadConfigFromEnv reads token verification configuration.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse auth env: %w", err)
	}
	cfg.Secret = strings.TrimSpace(cfg.Secret)
	if cfg.Secret == "" {
		return Config{}, fmt.Errorf("VIBESYNC_JWT_SECRET is required")
	}
	return cfg, nil
}

// UserResolver looks up the username of a user id when the token has none.
type UserResolver interface {
	Username(ctx context.Context, id domain.UserID) (string, error)
}

// userID accepts both numeric and string ids.
type userID string

func (u *userID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*u = userID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user_id: %w", err)
	}
	*u = userID(n.String())
	return nil
}

type accessClaims struct {
	jwt.RegisteredClaims
	UserID    userID `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
}

// JWTValidator validates HMAC signed access tokens.
type JWTValidator struct {
	cfg   Config
	users UserResolver
	now   func() time.Time
}

func NewJWTValidator(cfg Config, users UserResolver) *JWTValidator {
	return &JWTValidator{cfg: cfg, users: users, now: time.Now}
}

// Validate returns the user the token was issued for.
func (v *JWTValidator) Validate(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidToken)
	}
	if v.cfg.Secret == "" {
		return nil, ErrNotConfigured
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.cfg.Leeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(v.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if claims.TokenType != "" && claims.TokenType != "access" {
		return nil, fmt.Errorf("%w: token type %q", ErrInvalidToken, claims.TokenType)
	}

	id := domain.UserID(claims.UserID)
	if id == "" {
		id = domain.UserID(claims.Subject)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: no user id", ErrInvalidToken)
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		if v.users == nil {
			return nil, fmt.Errorf("%w: no username", ErrInvalidToken)
		}
		username, err = v.users.Username(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve user %s: %w", ErrInvalidToken, id, err)
		}
	}

	user, err := domain.NewUser(id, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return user, nil
}

// mapJWTError translates jwt library errors to validator errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidToken, err)
}

