package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/diarsplit/errors"
)

// Claims are the token claims accepted by the API.
type Claims struct {
	gojwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Service signs and verifies API tokens.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService validates cfg and returns a token service.
func NewService(cfg *Config) (*Service, error) {
	cfg.ApplyDefaults()
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth: secret is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: *cfg, now: time.Now}, nil
}

// Generate signs a token for subject. A zero ttl uses the configured TokenTTL.
func (s *Service) Generate(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", apperrors.MissingField("subject")
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audience,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: "split",
	}
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns its claims. Expired tokens yield
// TOKEN_EXPIRED; any other failure yields INVALID_TOKEN.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, apperrors.TokenExpired().WithCause(err)
		}
		return nil, apperrors.InvalidToken().WithCause(err)
	}
	if !token.Valid {
		return nil, apperrors.InvalidToken()
	}
	return claims, nil
}

func (s *Service) keyFunc(token *gojwt.Token) (any, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{string(s.cfg.Method)}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	for _, aud := range s.cfg.Audience {
		opts = append(opts, gojwt.WithAudience(aud))
	}
	return opts
}
