package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/logging"
	"github.com/jafarshop/storefront/internal/session"
)

// cli holds what every subcommand shares once PersistentPreRunE has run
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
	client *backend.Client
	token  string
}

// session returns the operator's session built from --token
func (c *cli) session() session.Session {
	return session.Resolve("storefrontctl", c.token, timeNow())
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "storefrontctl",
		Short: "Operate the storefront checkout flow from the command line",
		Long: `storefrontctl talks to the storefront backend the same way the checkout page does.

Available subcommands:
  session - store or forget a backend token for a browser session
  cart    - show the cart of the token's user with totals
  quote   - show only the totals of the cart
  order   - validate and place an order
  product - search the catalog`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, err := logging.New(cfg.Environment, cfg.LogLevel)
			if err != nil {
				return err
			}

			app.cfg = cfg
			app.logger = logger
			app.client = backend.NewClient(cfg.Backend, logger.Named("backend"))
			if app.token == "" {
				app.token = os.Getenv("STOREFRONT_TOKEN")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&app.token, "token", "", "backend access token (default $STOREFRONT_TOKEN)")

	root.AddCommand(
		newSessionCmd(app),
		newCartCmd(app),
		newQuoteCmd(app),
		newOrderCmd(app),
		newProductCmd(app),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
