package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Books(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit"/"quit" or ctx is
// done. Commands that need a session are rejected until login succeeds.
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("booklib%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: books, (l)ist, add <id>, remove <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "books", "l", "list", "add", "remove", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			runSessionCommand(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func runSessionCommand(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "books":
		_ = a.Books(ctx)
	case "l", "list":
		_ = a.List(ctx)
	case "add":
		_ = a.Add(ctx, args)
	case "remove":
		_ = a.Remove(ctx, args)
	case "logout":
		_ = a.Logout(ctx)
	}
}
