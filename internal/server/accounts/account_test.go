package accounts

import (
	"testing"

	"github.com/dmitrijs2005/booklib/internal/server/catalog"
	"github.com/stretchr/testify/assert"
)

func TestAccount_FavoritesSet(t *testing.T) {
	a := &Account{Username: "sandra"}

	assert.True(t, a.AddFavorite("7"))
	assert.False(t, a.AddFavorite("7"), "re-adding must not change the set")
	assert.True(t, a.AddFavorite("3"))
	assert.Equal(t, []catalog.BookID{"7", "3"}, a.Favorites)

	assert.False(t, a.RemoveFavorite("42"))
	assert.Equal(t, []catalog.BookID{"7", "3"}, a.Favorites)

	assert.True(t, a.RemoveFavorite("7"))
	assert.Equal(t, []catalog.BookID{"3"}, a.Favorites)
	assert.False(t, a.HasFavorite("7"))
	assert.True(t, a.HasFavorite("3"))
}

func TestAccount_CloneIsDeep(t *testing.T) {
	a := Account{Username: "u", Favorites: []catalog.BookID{"1"}}
	c := a.clone()
	c.Favorites[0] = "2"
	assert.Equal(t, catalog.BookID("1"), a.Favorites[0])
}
