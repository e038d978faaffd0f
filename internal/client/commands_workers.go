package client

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/handler"
	"github.com/MKhiriev/go-note-vault/internal/server"
	"github.com/MKhiriev/go-note-vault/internal/service"
)

var errServeNeedsLocalStorage = errors.New("serve opens the storage itself, drop --remote")

// migrate: sweep logical keys once, re-encrypting legacy plaintext.
func (c *CLI) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [keys...]",
		Short: "Re-encrypt legacy plaintext under the given (or configured) keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = c.app.cfg.Workers.MigrationKeys
			}
			if len(keys) == 0 {
				return fmt.Errorf("no keys to migrate: pass them as arguments or set --migrate")
			}

			job := service.NewMigrationJob(c.app.persistence, keys, c.logger)
			if err := job.RunOnce(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "swept %d keys\n", len(keys))
			return nil
		},
	}
}

// run: keep the background workers alive until the context is cancelled.
func (c *CLI) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the background migration worker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.app.cfg.Workers
			if cfg.MigrationInterval <= 0 || len(cfg.MigrationKeys) == 0 {
				return fmt.Errorf("nothing to run: set --migration-interval and --migrate")
			}

			ctx := cmd.Context()
			c.app.workers.Run(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "migrating %d keys every %s, press Ctrl+C to stop\n", len(cfg.MigrationKeys), cfg.MigrationInterval)

			<-ctx.Done()
			c.app.workers.Stop()
			return nil
		},
	}
}

// serve: expose the engine over HTTP and run the workers alongside it.
func (c *CLI) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Long: `serve exposes save, load, inspect, rm and clear over HTTP on --http-address.

The API has no authentication: keep it on a loopback address. Other notevault
invocations can use it with --remote.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.app.services == nil {
				return errServeNeedsLocalStorage
			}
			cfg := c.app.cfg.Server

			handlers, err := handler.NewHandlers(c.app.services, cfg, c.buildInfo, c.logger)
			if err != nil {
				return err
			}
			srv, err := server.NewServer(handlers, cfg, c.logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c.app.workers.Run(ctx)
			defer c.app.workers.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "serving on http://%s, press Ctrl+C to stop\n", srv.Addr())
			return srv.RunServer(ctx)
		},
	}
}
