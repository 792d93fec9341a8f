package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	Orders(ctx context.Context) error
	ShowCart(ctx context.Context) error
	AddItem(ctx context.Context) error
	SetQuantity(ctx context.Context, id, qty string) error
	RemoveItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context) error
	Stats(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Cart commands and checkout work with or without a session; profile and
// order history need one.
//
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop> %s > ", statusFn()))
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
				printlnFn("Available commands: whoami, profile, orders, cart, add, qty <id> <n>, remove <id>, clearcart, checkout, stats, logout, exit")
			} else {
				printlnFn("Available commands: register, login, cart, add, qty <id> <n>, remove <id>, clearcart, checkout, stats, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "orders":
			_ = a.Orders(ctx)

		case "cart":
			_ = a.ShowCart(ctx)

		case "add":
			_ = a.AddItem(ctx)

		case "qty":
			if len(args) != 2 {
				printlnFn("Usage: qty <item-id> <quantity>")
				continue
			}
			_ = a.SetQuantity(ctx, args[0], args[1])

		case "remove":
			if len(args) != 1 {
				printlnFn("Usage: remove <item-id>")
				continue
			}
			_ = a.RemoveItem(ctx, args[0])

		case "clearcart":
			_ = a.ClearCart(ctx)

		case "checkout":
			_ = a.Checkout(ctx)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
