package memory

import (
	"context"
	"sync"

	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/domain"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/staff/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps staff accounts in memory.
type Repository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member
}

func NewRepository() *Repository {
	return &Repository{members: map[string]*domain.Member{}}
}

func (r *Repository) Save(_ context.Context, member *domain.Member) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[member.Username] = member.Clone()
	return member.Clone(), nil
}

func (r *Repository) GetByUsername(_ context.Context, username string) (*domain.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[domain.NormalizeUsername(username)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return member.Clone(), nil
}
