// Package session runs the interactive, role-gated menu over a line
// oriented reader and writer.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"grocer/internal/core"
	"grocer/internal/log"
	"grocer/internal/services"
)

// Deps is the loaded state and the services acting on it.
type Deps struct {
	Sales *services.SalesService
	Items *services.CatalogService
	State *services.State
	Users []core.User
}

type Options struct {
	ChartDir   string
	ExportXLSX bool
	Now        func() time.Time
	Logger     *log.Logger
}

type Session struct {
	in     *bufio.Reader
	out    io.Writer
	deps   Deps
	opts   Options
	logger *log.Logger
	user   core.User
}

type menuEntry struct {
	label  string
	action services.Action
	run    func(s *Session, ctx context.Context) error
}

var (
	managerMenu = []menuEntry{
		{"Enter sales transaction", services.ActionRecordSale, (*Session).recordSale},
		{"Add new grocery item", services.ActionEditItems, (*Session).addItem},
		{"Edit grocery item", services.ActionEditItems, (*Session).editItem},
		{"Search transactions by date", services.ActionSearch, (*Session).searchByDate},
		{"Search transactions by product name", services.ActionSearch, (*Session).searchByName},
		{"Search transactions by product name and date range", services.ActionSearch, (*Session).searchByNameInRange},
		{"Monthly sales report", services.ActionReport, (*Session).monthlyReport},
		{"Product sales report", services.ActionReport, (*Session).productReport},
		{"Total sales by product", services.ActionReport, (*Session).totalReport},
	}
	cashierMenu = []menuEntry{
		{"Enter sales transaction", services.ActionRecordSale, (*Session).recordSale},
		{"Search transactions by date", services.ActionSearch, (*Session).searchByDate},
		{"Search transactions by product name", services.ActionSearch, (*Session).searchByName},
		{"Search transactions by product name and date range", services.ActionSearch, (*Session).searchByNameInRange},
	}
)

func New(in io.Reader, out io.Writer, deps Deps, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ChartDir == "" {
		opts.ChartDir = "."
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Session{
		in:     bufio.NewReader(in),
		out:    out,
		deps:   deps,
		opts:   opts,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// Run authenticates once and then serves the menu until the user exits,
// input ends or ctx is cancelled. A failed login returns an error wrapping
// core.ErrAuthFailed.
func (s *Session) Run(ctx context.Context) error {
	user, err := s.login()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		s.println("Authentication failed")
		s.logger.Warn("Login failed", log.NewFields().WithOperation(log.OpLogin).WithError(err).ToSlice()...)
		return err
	}
	s.user = user
	s.logger.Info("User logged in", log.NewFields().WithOperation(log.OpLogin).WithUser(user).ToSlice()...)
	s.printf("Welcome %s! You are logged in as a %s.\n", user.Username, user.Role)

	menu := s.menu()
	for {
		if ctx.Err() != nil {
			return nil
		}

		s.println()
		for i, e := range menu {
			s.printf("%d. %s\n", i+1, e.label)
		}
		s.println("0. Logout")

		choice, err := s.ask("Select an option: ")
		if err != nil {
			return nil
		}
		if choice == "0" {
			s.println("Goodbye.")
			return nil
		}

		entry, ok := pick(menu, choice)
		if !ok {
			s.println("Invalid option, try again.")
			continue
		}
		if err := services.Authorize(s.user.Role, entry.action); err != nil {
			s.println(describe(err))
			continue
		}

		err = entry.run(s, ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.println(describe(err))
			s.logger.Debug("Action failed", log.NewFields().WithError(err).ToSlice()...)
		}
	}
}

func (s *Session) login() (core.User, error) {
	username, err := s.ask("Username: ")
	if err != nil {
		return core.User{}, err
	}
	password, err := s.ask("Password: ")
	if err != nil {
		return core.User{}, err
	}
	return services.Authenticate(s.deps.Users, username, password)
}

func (s *Session) menu() []menuEntry {
	if s.user.Role == core.Manager {
		return managerMenu
	}
	return cashierMenu
}

func pick(menu []menuEntry, choice string) (menuEntry, bool) {
	n, err := wholeNumber(choice)
	if err != nil || n < 1 || n > len(menu) {
		return menuEntry{}, false
	}
	return menu[n-1], true
}

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, core.ErrPartialWrite):
		return "The sale was logged but the catalog could not be saved; stock will be repaired on next start."
	case errors.Is(err, core.ErrInvalidDate):
		return "Invalid date. Please use DD/MM/YYYY."
	case errors.Is(err, core.ErrInvalidMonth):
		return "Invalid month. Please use MM/YYYY."
	case errors.Is(err, core.ErrInvalidRange):
		return "The start must not be after the end."
	case errors.Is(err, core.ErrUnknownProduct):
		return "Grocery ID not found."
	case errors.Is(err, core.ErrInsufficientStock):
		return "Insufficient stock."
	case errors.Is(err, core.ErrInvalidQuantity):
		return "Quantity must be a positive whole number."
	case errors.Is(err, core.ErrInvalidPrice):
		return "Price must be a non-negative number."
	case errors.Is(err, core.ErrInvalidStock):
		return "Stock must be a non-negative whole number."
	case errors.Is(err, core.ErrEmptyName):
		return "Name cannot be empty."
	case errors.Is(err, core.ErrNoData):
		return "No sales data found for the selected period."
	case errors.Is(err, core.ErrForbidden):
		return "You are not allowed to perform this action."
	}
	return fmt.Sprintf("Error: %v", err)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) println(args ...any) {
	fmt.Fprintln(s.out, args...)
}
