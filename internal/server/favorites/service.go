// Package favorites manages each account's set of favorite books.
package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/dmitrijs2005/booklib/internal/server/accounts"
	"github.com/dmitrijs2005/booklib/internal/server/catalog"
)

// Service operates on behalf of an already verified username. Book ids are
// not checked against the catalog when added.
type Service struct {
	repo    accounts.Repository
	catalog catalog.Catalog
}

func NewService(repo accounts.Repository, c catalog.Catalog) *Service {
	return &Service{repo: repo, catalog: c}
}

// List returns the catalog entries whose ids are among the user's
// favorites, in catalog order. Favorites missing from the catalog are
// skipped.
func (s *Service) List(ctx context.Context, username string) ([]catalog.Book, error) {
	a, err := s.repo.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	books, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	out := make([]catalog.Book, 0, len(a.Favorites))
	for _, b := range books {
		if a.HasFavorite(b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Add puts id into the favorites set. Adding an id that is already there
// succeeds and changes nothing.
func (s *Service) Add(ctx context.Context, username string, id catalog.BookID) error {
	if id == "" {
		return common.ErrBookIDRequired
	}
	return s.repo.Update(ctx, username, func(a *accounts.Account) (bool, error) {
		return a.AddFavorite(id), nil
	})
}

// Remove takes id out of the favorites set. It fails with
// common.ErrNotInFavorites when id is not there.
func (s *Service) Remove(ctx context.Context, username string, id catalog.BookID) error {
	if id == "" {
		return common.ErrBookIDRequired
	}
	return s.repo.Update(ctx, username, func(a *accounts.Account) (bool, error) {
		if !a.RemoveFavorite(id) {
			return false, common.ErrNotInFavorites
		}
		return true, nil
	})
}
