package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datashare/internal/client/identity"
	"github.com/dmitrijs2005/datashare/internal/client/models"
	"github.com/dmitrijs2005/datashare/internal/common"
	"github.com/google/shlex"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	role() models.Role
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Submit(ctx context.Context) error
	History(ctx context.Context) error
	Latest(ctx context.Context, ownerID string) error
	Upload(ctx context.Context, path, targetID string) error
	Files(ctx context.Context, all bool) error
	Stats(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// commandRoles lists the roles allowed to run a signed-in command.
// An empty list admits every role.
var commandRoles = map[string][]models.Role{
	"whoami":  nil,
	"logout":  nil,
	"latest":  nil,
	"files":   nil,
	"stats":   nil,
	"refresh": nil,
	"submit":  {models.RoleA},
	"history": {models.RoleA},
	"upload":  {models.RoleB},
}

func helpText(r models.Role) string {
	switch r {
	case models.RoleA:
		return "Available commands: submit, history, latest, files, stats, whoami, refresh, logout, exit"
	case models.RoleB:
		return "Available commands: upload <path> [target], latest [owner], files [all], stats, whoami, refresh, logout, exit"
	default:
		return "Available commands: register, login, exit"
	}
}

// runREPL starts a read-eval-print loop for the DataShare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Arguments follow shell quoting
// rules, so paths with spaces can be quoted. Commands that need a session
// or a particular role are refused before dispatch. Handler errors are
// printed and the loop continues. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ds %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts, err := shlex.Split(scanner.Text())
		if err != nil {
			printlnFn("Error:", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		role := a.role()

		if allowed, ok := commandRoles[cmd]; ok {
			if role == "" {
				printlnFn("Please log in first")
				continue
			}
			if len(allowed) > 0 && !hasRole(allowed, role) {
				printlnFn(fmt.Sprintf("Command %q is not available for %s", cmd, role))
				continue
			}
		}

		switch cmd {
		case "help":
			printlnFn(helpText(role))

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "submit":
			err = a.Submit(ctx)

		case "history":
			err = a.History(ctx)

		case "latest":
			err = a.Latest(ctx, arg(args, 0))

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [target]")
				continue
			}
			err = a.Upload(ctx, args[0], arg(args, 1))

		case "files":
			err = a.Files(ctx, arg(args, 0) == "all")

		case "stats":
			err = a.Stats(ctx)

		case "refresh":
			err = a.Refresh(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func hasRole(roles []models.Role, r models.Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// describe turns an error into a message fit for the prompt.
func describe(err error) string {
	var authErr *identity.AuthError
	switch {
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, common.ErrPersistenceWrite):
		return "saved for this session only, the local store could not be written"
	default:
		return err.Error()
	}
}
