package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	Upload(ctx context.Context) error
	Inputs(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Command errors are reported by the commands
// themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("csvdrop (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, inputs, status, profile, update, logout, exit")
			} else {
				printlnFn("Available commands: upload, inputs, status, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "update":
			_ = a.UpdateProfile(ctx)

		case "u", "upload":
			_ = a.Upload(ctx)

		case "inputs":
			_ = a.Inputs(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
