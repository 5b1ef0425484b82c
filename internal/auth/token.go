package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Annany2002/nebula-gateway/api/models"
	"github.com/Annany2002/nebula-gateway/internal/domain"
)

// Issuer is written to and required in every token.
const Issuer = "nebula-gateway"

// TokenService issues and verifies HS256 tokens carrying an Identity.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates a token service. A ttl of 0 issues tokens without
// an exp claim.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithIssuedAt(),
			jwt.WithStrictDecoding(),
		),
	}
}

// Issue creates a signed token string for the identity.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := s.now()
	claims := models.CustomClaims{
		UserID: identity.ID,
		Login:  identity.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		customLog.Warnf("Error signing JWT for user %d: %v", identity.ID, err)
		return "", fmt.Errorf("failed to generate token")
	}
	return signed, nil
}

// Verify parses and validates a token string. Every failure wraps
// ErrTokenInvalid; expired or not-yet-valid tokens also wrap ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	if len(s.secret) == 0 {
		return domain.Identity{}, ErrMissingSecret
	}

	claims := &models.CustomClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return domain.Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, ErrTokenExpired)
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return domain.Identity{}, ErrTokenInvalid
	}
	if claims.UserID <= 0 || claims.Login == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing identity claims", ErrTokenInvalid)
	}

	return domain.Identity{ID: claims.UserID, Login: claims.Login}, nil
}
