package jwtadapter

import (
	"errors"
	"time"

	"stayhub/contexts/stay-marketplace/listing-service/domain/entities"
	domainerrors "stayhub/contexts/stay-marketplace/listing-service/domain/errors"
	"stayhub/contexts/stay-marketplace/listing-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload of the access token. The admin flag is a
// snapshot taken at issue time; demoting an account does not invalidate
// tokens already in the wild.
type tokenClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
}

var _ ports.TokenService = (*TokenService)(nil)

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret}
}

func (s *TokenService) Issue(principal entities.Principal, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		IsAdmin: principal.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates the token, mapping every failure to one of the
// token sentinel errors so transport can pick the right status without
// leaking parser details.
func (s *TokenService) Verify(token string) (entities.Principal, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainerrors.ErrTokenSignature
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return entities.Principal{}, domainerrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return entities.Principal{}, domainerrors.ErrTokenSignature
		case errors.Is(err, domainerrors.ErrTokenSignature):
			return entities.Principal{}, domainerrors.ErrTokenSignature
		default:
			return entities.Principal{}, domainerrors.ErrTokenMalformed
		}
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return entities.Principal{}, domainerrors.ErrTokenMalformed
	}
	return entities.Principal{AccountID: claims.Subject, IsAdmin: claims.IsAdmin}, nil
}
