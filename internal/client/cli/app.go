package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/shopkeeper/internal/client/config"
	"github.com/dmitrijs2005/shopkeeper/internal/client/services"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/cryptox"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/ratelimit"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	accounts services.AccountService
	cart     services.CartService
	orders   services.OrderService
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer
}

// NewApp opens the stores described by c, builds the services and runs
// their bootstrap.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := openStores(ctx, c, log)
	if err != nil {
		return nil, err
	}

	facade := storage.NewFacade(st.primary, st.fallback, log)

	accounts := services.NewAccountService(facade, services.AccountConfig{
		Hasher:            cryptox.NewHasher(c.PasswordSalt),
		Limiter:           ratelimit.New(c.LockoutDuration),
		SignInMaxAttempts: c.SignInMaxAttempts,
		SignInWindow:      c.SignInWindow,
		Logger:            log,
	})

	a := &App{
		config:   c,
		log:      log,
		accounts: accounts,
		cart:     services.NewCartService(facade, log),
		orders:   services.NewOrderService(facade, log),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  st.closers,
	}

	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	if err := a.accounts.Init(ctx); err != nil {
		return fmt.Errorf("init accounts: %w", err)
	}
	if err := a.cart.Init(ctx); err != nil {
		return fmt.Errorf("init cart: %w", err)
	}
	if err := a.orders.Init(ctx); err != nil {
		return fmt.Errorf("init orders: %w", err)
	}
	return nil
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to shopkeeper (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.accounts.CurrentUser() != nil
}

func (a *App) status() string {
	s := fmt.Sprintf("cart:%d", len(a.cart.Items()))
	if u := a.accounts.CurrentUser(); u != nil {
		s = u.Email + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}
