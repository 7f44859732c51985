package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

// execIface defines the command surface the REPL needs. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	status(ctx context.Context) string

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Me(ctx context.Context) error

	AddNote(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Categories(ctx context.Context) error
	Export(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, forgot, reset, exit"
	helpLoggedIn  = "Available commands: add, (l)ist [category], search <text>, show <id>, edit <id>, delete <id>, " +
		"categories, export, me, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// It exits on EOF or when the user types "exit" or "quit". Command errors
// are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		prompt := "nk> "
		if s := a.status(ctx); s != "" {
			prompt = fmt.Sprintf("nk (%s)> ", s)
		}
		fmt.Fprint(w, prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				fmt.Fprintln(w, helpLoggedIn)
			} else {
				fmt.Fprintln(w, helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "forgot":
			cmdErr = a.ForgotPassword(ctx)
		case "reset":
			cmdErr = a.ResetPassword(ctx)
		case "me":
			cmdErr = a.Me(ctx)

		case "add":
			cmdErr = a.AddNote(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "search":
			cmdErr = a.Search(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "categories":
			cmdErr = a.Categories(ctx)
		case "export":
			cmdErr = a.Export(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			reportError(w, cmdErr)
		}
	}
}

func reportError(w io.Writer, err error) {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		fmt.Fprintln(w, "You are not logged in. Use 'login' or 'register'.")
	case errors.Is(err, services.ErrSessionExpired):
		fmt.Fprintln(w, "Your session has expired. Please login again.")
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}
