package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Add(ctx context.Context) error
	Attach(ctx context.Context, path string) error
	Edit(ctx context.Context, id string) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	List(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Download(ctx context.Context, id, dest string) error
	Search(ctx context.Context, query string) error
	Delete(ctx context.Context, id string) error
}

const (
	guestHelp = "Available commands: register, login, list, show <id>, search <text>, download <id> [path], help, exit"
	userHelp  = "Available commands: whoami, add, attach <file>, edit <id>, pin <id>, unpin <id>, delete <id>, " +
		"list, show <id>, search <text>, download <id> [path], logout, help, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit". The first
// word selects the command; the rest are its arguments. Command errors are
// reported by the commands themselves, so the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	fmt.Fprintln(out, "notekeeper CLI (type 'help' for commands)")
	for {
		fmt.Fprintf(out, "nk %s > ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "Error:", err)
			}
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
				fmt.Fprintln(out, userHelp)
			} else {
				fmt.Fprintln(out, guestHelp)
			}

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "list", "l":
			_ = a.List(ctx)
		case "search":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: search <text>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))
		case "show":
			if len(args) != 1 {
				fmt.Fprintln(out, "Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])
		case "download":
			if len(args) < 1 || len(args) > 2 {
				fmt.Fprintln(out, "Usage: download <id> [path]")
				continue
			}
			dest := ""
			if len(args) == 2 {
				dest = args[1]
			}
			_ = a.Download(ctx, args[0], dest)

		case "logout", "whoami", "add", "attach", "edit", "pin", "unpin", "delete":
			if !a.isLoggedIn() {
				fmt.Fprintln(out, "Please login first")
				continue
			}
			runUserCommand(ctx, a, cmd, args, out)

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

func runUserCommand(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) {
	switch cmd {
	case "logout":
		_ = a.Logout(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "add":
		_ = a.Add(ctx)
	case "attach":
		if len(args) != 1 {
			fmt.Fprintln(out, "Usage: attach <file>")
			return
		}
		_ = a.Attach(ctx, args[0])
	default:
		if len(args) != 1 {
			fmt.Fprintf(out, "Usage: %s <id>\n", cmd)
			return
		}
		switch cmd {
		case "edit":
			_ = a.Edit(ctx, args[0])
		case "pin":
			_ = a.SetPinned(ctx, args[0], true)
		case "unpin":
			_ = a.SetPinned(ctx, args[0], false)
		case "delete":
			_ = a.Delete(ctx, args[0])
		}
	}
}
