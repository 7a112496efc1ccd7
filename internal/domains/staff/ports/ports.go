package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/domain"
)

var (
	ErrNotFound           = errors.New("staff member not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Repository stores staff accounts.
type Repository interface {
	Save(ctx context.Context, member *domain.Member) (*domain.Member, error)
	GetByUsername(ctx context.Context, username string) (*domain.Member, error)
}

// Token is a signed bearer credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims are the verified contents of a token.
type Claims struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(username string, now time.Time) (Token, error)
	Verify(token string, now time.Time) (Claims, error)
}

// Service exposes staff authentication to adapters.
type Service interface {
	Register(ctx context.Context, username, password string) (*domain.Member, error)
	Login(ctx context.Context, username, password string) (Token, error)
	Authenticate(ctx context.Context, token string) (string, error)
}
