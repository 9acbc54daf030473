package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jafarshop/storefront/internal/repository/postgres"
	"github.com/jafarshop/storefront/internal/session"
)

func newSessionCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage stored backend tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "put <session-id> <access-token>",
		Short:   "Store a backend token for a browser session",
		Example: `storefrontctl session put 6f1c... eyJhbGciOi...`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := openSessions(app)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := mgr.SaveToken(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			sess := session.Resolve(args[0], args[1], timeNow())
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Token stored for session %s (%s)\n", args[0], sess.State())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "Forget the backend token of a browser session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, closeFn, err := openSessions(app)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := mgr.Forget(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to forget token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s forgotten\n", args[0])
			return nil
		},
	})

	return cmd
}

// openSessions connects to the configured session store
func openSessions(app *cli) (*session.Manager, func(), error) {
	if app.cfg.Session.Store == "memory" {
		return session.NewManager(session.NewMemoryStore(), app.logger), func() {}, nil
	}

	db, err := postgres.NewConnection(app.cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos := postgres.NewRepositories(db, app.cfg.Session.KeySalt, app.logger)
	return session.NewManager(repos.Session, app.logger), func() { db.Close() }, nil
}
