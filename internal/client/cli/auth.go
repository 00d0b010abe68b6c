package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/booklib/internal/shared"
)

// getSimpleText and getPassword point to the interactive input helpers and
// are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates the account.
// The password buffer is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.client.Register(ctx, userName, password); err != nil {
		return a.report(err)
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Login prompts for credentials and keeps the issued token for later
// commands.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	token, err := a.client.Login(ctx, userName, password)
	if err != nil {
		return a.report(err)
	}

	a.token = token
	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the token. Tokens are stateless, so nothing is sent to the
// server.
func (a *App) Logout(_ context.Context) error {
	a.token = ""
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
