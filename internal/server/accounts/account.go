// Package accounts is the credential store: account records, the stores
// that persist them, and the registration and login logic on top.
package accounts

import (
	"slices"

	"github.com/dmitrijs2005/booklib/internal/server/catalog"
)

// Account is a registered user. Password holds a bcrypt hash; it is set on
// registration and never changed. Favorites keeps insertion order and never
// contains the same id twice.
type Account struct {
	Username  string           `json:"username"`
	Password  string           `json:"password"`
	Favorites []catalog.BookID `json:"favorites"`
}

// HasFavorite reports whether id is in the favorites set.
func (a *Account) HasFavorite(id catalog.BookID) bool {
	return slices.Contains(a.Favorites, id)
}

// AddFavorite inserts id unless it is already present and reports whether
// the set changed.
func (a *Account) AddFavorite(id catalog.BookID) bool {
	if a.HasFavorite(id) {
		return false
	}
	a.Favorites = append(a.Favorites, id)
	return true
}

// RemoveFavorite deletes id and reports whether it was present.
func (a *Account) RemoveFavorite(id catalog.BookID) bool {
	i := slices.Index(a.Favorites, id)
	if i < 0 {
		return false
	}
	a.Favorites = slices.Delete(a.Favorites, i, i+1)
	return true
}

func (a Account) clone() Account {
	a.Favorites = slices.Clone(a.Favorites)
	return a
}

func cloneAll(src []Account) []Account {
	out := make([]Account, len(src))
	for i := range src {
		out[i] = src[i].clone()
	}
	return out
}
