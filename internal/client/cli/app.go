package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/booklib/internal/client/api"
	"github.com/dmitrijs2005/booklib/internal/client/config"
	"github.com/dmitrijs2005/booklib/internal/common"
)

// apiClient is the subset of api.Client the CLI needs.
type apiClient interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) (string, error)
	Books(ctx context.Context, token string) ([]api.Book, error)
	ListFavorites(ctx context.Context, token string) ([]api.Book, error)
	AddFavorite(ctx context.Context, token, bookID string) error
	RemoveFavorite(ctx context.Context, token, bookID string) error
}

type App struct {
	config   *config.Config
	client   apiClient
	token    string
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

// report prints err for the user. A rejected token ends the session so the
// prompt reflects that a new login is needed.
func (a *App) report(err error) error {
	if errors.Is(err, common.ErrInvalidToken) {
		a.token = ""
		a.userName = ""
		fmt.Fprintln(a.out, "Session expired, please login again")
		return err
	}
	fmt.Fprintln(a.out, "Error:", err.Error())
	return err
}
