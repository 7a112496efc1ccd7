package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/ports"
)

// Service exposes staff bounded context use cases.
type Service struct {
	repo     ports.Repository
	tokens   ports.TokenIssuer
	hashCost int
	now      func() time.Time
}

type Option func(*Service)

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.hashCost = cost
	}
}

// WithClock overrides the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{repo: repo, tokens: tokens, hashCost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register hashes the password and stores the account, replacing any
// existing account with the same username.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.Member, error) {
	if err := domain.ValidatePassword(password); err != nil {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, err
	}
	member, err := domain.NewMember(username, hash)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, member)
}

func (s *Service) Login(ctx context.Context, username, password string) (ports.Token, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return ports.Token{}, mapError(ports.ErrInvalidCredentials)
	}
	member, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ports.Token{}, mapError(ports.ErrInvalidCredentials)
		}
		return ports.Token{}, err
	}
	if err := bcrypt.CompareHashAndPassword(member.PasswordHash, []byte(password)); err != nil {
		return ports.Token{}, mapError(ports.ErrInvalidCredentials)
	}
	return s.tokens.Issue(member.Username, s.now())
}

// Authenticate verifies a bearer token and returns the staff username.
// Tokens for accounts that no longer exist are refused.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", mapError(ports.ErrInvalidToken)
	}
	claims, err := s.tokens.Verify(token, s.now())
	if err != nil {
		return "", mapError(ports.ErrInvalidToken)
	}
	if claims.Role != domain.RoleStaff {
		return "", mapError(ports.ErrInvalidToken)
	}
	if _, err := s.repo.GetByUsername(ctx, claims.Username); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", mapError(ports.ErrInvalidToken)
		}
		return "", err
	}
	return claims.Username, nil
}

var _ ports.Service = (*Service)(nil)
