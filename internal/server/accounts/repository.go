package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/booklib/internal/common"
)

// Mutation edits an account in place. It reports whether anything changed;
// the change is persisted only when changed is true and err is nil. An error
// aborts the update and is returned to the caller as is.
type Mutation func(a *Account) (changed bool, err error)

// Repository is what the services use to read and change accounts.
// Update must serialize concurrent mutations of the same account.
type Repository interface {
	Create(ctx context.Context, a Account) error
	Get(ctx context.Context, username string) (*Account, error)
	Update(ctx context.Context, username string, m Mutation) error
}

// CollectionRepository implements Repository over a whole-collection Store.
// A single mutex covers every load-mutate-save cycle so no update is lost.
type CollectionRepository struct {
	mu    sync.Mutex
	store Store
}

func NewCollectionRepository(store Store) *CollectionRepository {
	return &CollectionRepository{store: store}
}

func (r *CollectionRepository) Create(ctx context.Context, a Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	if indexOf(all, a.Username) >= 0 {
		return common.ErrAccountAlreadyExists
	}

	all = append(all, a.clone())
	if err := r.store.Save(ctx, all); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (r *CollectionRepository) Get(ctx context.Context, username string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	i := indexOf(all, username)
	if i < 0 {
		return nil, common.ErrAccountNotFound
	}
	a := all[i].clone()
	return &a, nil
}

func (r *CollectionRepository) Update(ctx context.Context, username string, m Mutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	i := indexOf(all, username)
	if i < 0 {
		return common.ErrAccountNotFound
	}

	a := all[i].clone()
	changed, err := m(&a)
	if err != nil || !changed {
		return err
	}

	all[i] = a
	if err := r.store.Save(ctx, all); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func indexOf(all []Account, username string) int {
	for i := range all {
		if all[i].Username == username {
			return i
		}
	}
	return -1
}
