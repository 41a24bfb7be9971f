package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/csvdrop/internal/common"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory, indexed by id and by
// username. Everything is lost on restart. Returned accounts are copies.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*Account
	byUserName map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*Account),
		byUserName: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUserName[account.UserName]; exists {
		return nil, fmt.Errorf("%w: username %q already exists", common.ErrConflict, account.UserName)
	}

	a := account.clone()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	r.byID[a.ID] = a
	r.byUserName[a.UserName] = a.ID

	return a.clone(), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return a.clone(), nil
}

func (r *MemoryRepository) GetByUserName(ctx context.Context, userName string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUserName[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	return r.byID[id].clone(), nil
}

// Update applies mutate to a copy of the account and commits it only if
// mutate succeeds and the resulting username is still unique.
func (r *MemoryRepository) Update(ctx context.Context, id string, mutate func(a *Account) error) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	next := current.clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID

	if next.UserName != current.UserName {
		if _, taken := r.byUserName[next.UserName]; taken {
			return nil, fmt.Errorf("%w: username %q already exists", common.ErrConflict, next.UserName)
		}
		delete(r.byUserName, current.UserName)
		r.byUserName[next.UserName] = id
	}

	r.byID[id] = next

	return next.clone(), nil
}

// size reports the number of stored accounts.
func (r *MemoryRepository) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
