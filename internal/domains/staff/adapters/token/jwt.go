// Package token signs staff bearer tokens as HS256 JWTs.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/ports"
)

const issuer = "restaurant-ordering-api"

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

type staffClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies HS256 tokens.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}, nil
}

func (i *JWTIssuer) Issue(username string, now time.Time) (ports.Token, error) {
	expiresAt := now.Add(i.ttl).Truncate(time.Second)
	claims := staffClaims{
		Role: domain.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return ports.Token{}, fmt.Errorf("sign staff token: %w", err)
	}
	return ports.Token{Value: signed, ExpiresAt: expiresAt}, nil
}

func (i *JWTIssuer) Verify(raw string, now time.Time) (ports.Claims, error) {
	var claims staffClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return ports.Claims{}, fmt.Errorf("%w: %w", ports.ErrInvalidToken, err)
	}
	return ports.Claims{
		Username:  claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
