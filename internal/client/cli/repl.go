package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/voatnetwork/voat/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Cache(ctx context.Context) error
	ClearCache(ctx context.Context) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Refresh(ctx context.Context) error
	Wishlist(ctx context.Context) error
	RemoveWishlistItem(ctx context.Context, id string) error
	Bookings(ctx context.Context, filter string) error
	DecideBooking(ctx context.Context, id string, action models.BookingAction) error
	Orders(ctx context.Context) error
	Notifications(ctx context.Context) error
	ReadNotification(ctx context.Context, id string) error

	PortfolioStatus(ctx context.Context) error
	SubmitPortfolio(ctx context.Context) error
	Projects(ctx context.Context) error
	AddProject(ctx context.Context) error
	AddProjectImages(ctx context.Context, id string) error
	RemoveProject(ctx context.Context, id string) error
	SaveProjects(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: register, login, cache, clear-cache, exit"
	helpMember = "Available commands: profile, edit-profile, refresh, wishlist, remove <id>, " +
		"bookings [all|pending|accepted|rejected], accept <id>, reject <id>, orders, " +
		"notifications, read <id|all>, status, submit-portfolio, projects, add-project, " +
		"add-images <id>, remove-project <id>, save-projects, cache, clear-cache, logout, exit"
)

// runREPL starts a read-eval-print loop for the VOAT CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on a. Commands that need a session are refused
// until the user registers or logs in. The loop exits on EOF, when ctx is
// done, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("voat %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if needsSession(cmd) && !a.isLoggedIn() {
			printlnFn("Please register or login first")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "cache":
			cmdErr = a.Cache(ctx)
		case "clear-cache":
			cmdErr = a.ClearCache(ctx)

		case "profile":
			cmdErr = a.Profile(ctx)
		case "edit-profile":
			cmdErr = a.EditProfile(ctx)
		case "refresh":
			cmdErr = a.Refresh(ctx)
		case "wishlist":
			cmdErr = a.Wishlist(ctx)
		case "remove":
			if len(args) == 0 {
				printlnFn("Usage: remove <id>")
				continue
			}
			cmdErr = a.RemoveWishlistItem(ctx, args[0])
		case "bookings":
			filter := "all"
			if len(args) > 0 {
				filter = args[0]
			}
			cmdErr = a.Bookings(ctx, filter)
		case "accept", "reject":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			cmdErr = a.DecideBooking(ctx, args[0], models.BookingAction(cmd))
		case "orders":
			cmdErr = a.Orders(ctx)
		case "notifications":
			cmdErr = a.Notifications(ctx)
		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <id|all>")
				continue
			}
			cmdErr = a.ReadNotification(ctx, args[0])

		case "status":
			cmdErr = a.PortfolioStatus(ctx)
		case "submit-portfolio":
			cmdErr = a.SubmitPortfolio(ctx)
		case "projects":
			cmdErr = a.Projects(ctx)
		case "add-project":
			cmdErr = a.AddProject(ctx)
		case "add-images":
			if len(args) == 0 {
				printlnFn("Usage: add-images <project id>")
				continue
			}
			cmdErr = a.AddProjectImages(ctx, args[0])
		case "remove-project":
			if len(args) == 0 {
				printlnFn("Usage: remove-project <project id>")
				continue
			}
			cmdErr = a.RemoveProject(ctx, args[0])
		case "save-projects":
			cmdErr = a.SaveProjects(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}

func needsSession(cmd string) bool {
	switch cmd {
	case "logout", "profile", "edit-profile", "refresh", "wishlist", "remove",
		"bookings", "accept", "reject", "orders", "notifications", "read",
		"status", "submit-portfolio", "projects", "add-project", "add-images",
		"remove-project", "save-projects":
		return true
	}
	return false
}
