package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Books(ctx context.Context) error {
	f.calls = append(f.calls, "books")
	return nil
}

func (f *fakeExec) List(ctx context.Context) error {
	f.calls = append(f.calls, "list")
	return nil
}

func (f *fakeExec) Add(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "add")
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "remove")
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrintln(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "" }, input(
		"",
		"books",
		"register",
		"login",
		"books",
		"l",
		"add 42",
		"remove 42",
		"logout",
		"exit",
		"list",
	))

	assert.Equal(t, []string{"register", "login", "books", "list", "add", "remove", "logout"}, f.calls)
	assert.Equal(t, [][]string{{"42"}, {"42"}}, f.args)
	assert.Contains(t, *out, "Please login first")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := capturePrintln(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return "" }, input("help", "login", "help"))

	assert.Contains(t, *out, "Available commands: register, login, exit")
	assert.Contains(t, *out, "Available commands: books, (l)ist, add <id>, remove <id>, logout, exit")
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	out := capturePrintln(t)
	f := &fakeExec{}

	runREPL(context.Background(), f, func() string { return " (sandra)" }, input("frobnicate"))

	assert.Empty(t, f.calls)
	assert.Contains(t, *out, "Unknown command: frobnicate")
	assert.Contains(t, *out, "booklib (sandra)>")
}

func TestRunREPL_StopsWhenContextDone(t *testing.T) {
	capturePrintln(t)
	f := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runREPL(ctx, f, func() string { return "" }, input("register"))

	assert.Empty(t, f.calls)
}
