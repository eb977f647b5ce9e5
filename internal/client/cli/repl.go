package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	handleError(ctx context.Context, err error)
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Pages(ctx context.Context) error
	LinkedIn(ctx context.Context) error
	Publish(ctx context.Context) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error
	SetPages(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error
	DelUser(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: login, help, exit"
	helpUser      = "Available commands: whoami, pages, linkedin, publish, logout, help, exit"
	helpAdmin     = helpUser + "\nAdmin commands: users, adduser, setpages <user>, passwd <user>, deluser <user>"
)

// runREPL reads one command per line and dispatches it to a. Commands that
// need a session are refused while anonymous and admin commands are hidden
// from everyone but the administrator. The loop exits on EOF, "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("studio %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch {
		case cmd == "exit" || cmd == "quit":
			printlnFn("Bye!")
			return

		case cmd == "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpAnonymous)
			}
			continue

		case userCommands[cmd] && !a.isLoggedIn():
			printlnFn("Please log in first")
			continue

		case adminCommands[cmd] && !a.isAdmin():
			printlnFn("Unknown command:", cmd)
			continue
		}

		switch cmd {
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "pages":
			err = a.Pages(ctx)
		case "linkedin":
			err = a.LinkedIn(ctx)
		case "publish":
			err = a.Publish(ctx)
		case "users":
			err = a.Users(ctx)
		case "adduser":
			err = a.AddUser(ctx)
		case "setpages":
			err = a.SetPages(ctx, args)
		case "passwd":
			err = a.Passwd(ctx, args)
		case "deluser":
			err = a.DelUser(ctx, args)
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			a.handleError(ctx, err)
		}
	}
}

var userCommands = map[string]bool{
	"logout": true, "whoami": true, "pages": true, "linkedin": true, "publish": true,
	"users": true, "adduser": true, "setpages": true, "passwd": true, "deluser": true,
}

var adminCommands = map[string]bool{
	"users": true, "adduser": true, "setpages": true, "passwd": true, "deluser": true,
}
