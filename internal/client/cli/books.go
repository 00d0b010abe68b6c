package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/booklib/internal/client/api"
)

// Books prints the whole catalog.
func (a *App) Books(ctx context.Context) error {
	books, err := a.client.Books(ctx, a.token)
	if err != nil {
		return a.report(err)
	}
	a.printBooks(books, "The catalog is empty")
	return nil
}

// List prints the user's favorites.
func (a *App) List(ctx context.Context) error {
	books, err := a.client.ListFavorites(ctx, a.token)
	if err != nil {
		return a.report(err)
	}
	a.printBooks(books, "No favorites yet")
	return nil
}

// Add puts a book into favorites. The id comes from args or, when absent,
// from a prompt.
func (a *App) Add(ctx context.Context, args []string) error {
	id, err := a.bookID(args)
	if err != nil {
		return err
	}
	if err := a.client.AddFavorite(ctx, a.token, id); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Book added to favorites")
	return nil
}

// Remove takes a book out of favorites.
func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := a.bookID(args)
	if err != nil {
		return err
	}
	if err := a.client.RemoveFavorite(ctx, a.token, id); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Book removed from favorites")
	return nil
}

func (a *App) bookID(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, "Enter book ID", os.Stdout)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", a.report(errors.New("book ID required"))
	}
	return id, nil
}

func (a *App) printBooks(books []api.Book, empty string) {
	if len(books) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	for _, b := range books {
		fmt.Fprintln(a.out, formatBook(b))
	}
}

func formatBook(b api.Book) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", b.ID, b.Title)
	if b.Author != "" {
		fmt.Fprintf(&sb, " by %s", b.Author)
	}
	return sb.String()
}
