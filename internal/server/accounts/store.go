package accounts

import (
	"context"
	"sync"
)

// Store persists the whole account collection at once.
// Save replaces everything Load would return.
type Store interface {
	Load(ctx context.Context) ([]Account, error)
	Save(ctx context.Context, accounts []Account) error
}

// MemoryStore keeps accounts in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts []Account
}

func NewMemoryStore(accounts ...Account) *MemoryStore {
	return &MemoryStore{accounts: cloneAll(accounts)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.accounts), nil
}

func (s *MemoryStore) Save(ctx context.Context, accounts []Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = cloneAll(accounts)
	return nil
}
