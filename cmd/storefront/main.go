// Command storefront is a terminal shopper for the storefront API. It keeps
// the guest session, wishlist and sign-in token in a local state directory.
package main

import (
	"fmt"
	"os"
	"time"

	"storefront/internal/cartctl"
	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/guest"
	"storefront/internal/logging"
	"storefront/internal/storage"
	"storefront/internal/wishlist"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	tokenKey  = "token"
	userIDKey = "userId"
)

// app is the per-invocation state shared by every subcommand.
type app struct {
	apiURL   string
	stateDir string
	verbose  bool
	timeout  time.Duration

	logger   *zap.Logger
	store    *storage.Badger
	guests   *guest.Provider
	wishlist *wishlist.Wishlist
	api      *client.Client
}

func newRootCmd() (*cobra.Command, *app) {
	cfg := config.Load(".env")
	a := &app{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse products and manage your cart from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", cfg.APIURL, "Storefront API base URL")
	root.PersistentFlags().StringVar(&a.stateDir, "state-dir", cfg.StateDir, "Directory for local session state")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "Request timeout")

	root.AddCommand(
		newCartCmd(a),
		newGuestCmd(a),
		newWishlistCmd(a),
		newProductsCmd(a),
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
	)
	return root, a
}

func (a *app) open() error {
	logger := zap.NewNop()
	if a.verbose {
		l, err := logging.New("development", true)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
	}
	a.logger = logger

	if err := os.MkdirAll(a.stateDir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	store, err := storage.Open(a.stateDir)
	if err != nil {
		return err
	}
	a.store = store
	a.guests = guest.New(store)
	a.wishlist = wishlist.New(store)
	a.api = client.New(a.apiURL,
		client.WithLogger(logger),
		client.WithTokenSource(a.token),
	)
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

func (a *app) token() string {
	tok, _, err := a.store.Get(tokenKey)
	if err != nil {
		a.logger.Warn("read token", zap.Error(err))
		return ""
	}
	return tok
}

func (a *app) userID() string {
	id, _, _ := a.store.Get(userIDKey)
	return id
}

// controller returns a cart controller for the stored identity.
func (a *app) controller() (*cartctl.Controller, error) {
	session, err := cartctl.NewSession(a.guests, a.userID())
	if err != nil {
		return nil, err
	}
	return cartctl.New(a.api, session, a.logger), nil
}

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
