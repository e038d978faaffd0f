// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/models"
)

// skipAppAnnotation marks commands that run without opening storage.
const skipAppAnnotation = "notevault/skip-app"

// CLI is the cobra-based [Client].
type CLI struct {
	root      *cobra.Command
	flagCfg   *config.StructuredConfig
	buildInfo models.AppBuildInfo

	app       *App
	logger    *logger.Logger
	copyText  func(string) error
	newLogger func(cfg *config.StructuredConfig) *logger.Logger
}

// Option configures a [CLI].
type Option func(*CLI)

// WithArgs replaces os.Args[1:].
func WithArgs(args ...string) Option {
	return func(c *CLI) { c.root.SetArgs(args) }
}

// WithIO replaces stdin and stdout (stderr follows stdout).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *CLI) {
		c.root.SetIn(in)
		c.root.SetOut(out)
		c.root.SetErr(out)
	}
}

// WithLogger makes every command log to log regardless of LOG_FILE.
func WithLogger(log *logger.Logger) Option {
	return func(c *CLI) {
		c.newLogger = func(*config.StructuredConfig) *logger.Logger { return log }
	}
}

// WithClipboard replaces the system clipboard used by load --copy.
func WithClipboard(copyText func(string) error) Option {
	return func(c *CLI) { c.copyText = copyText }
}

// NewCLI builds the command tree.
func NewCLI(buildInfo models.AppBuildInfo, opts ...Option) *CLI {
	c := &CLI{
		buildInfo: buildInfo,
		copyText:  clipboard.WriteAll,
		newLogger: defaultLogger,
	}

	c.root = &cobra.Command{
		Use:   "notevault",
		Short: "Encrypted local storage for JSON documents",
		Long: `notevault stores JSON documents under logical keys, encrypted with AES-256-GCM.

Legacy plaintext documents are detected on read and re-encrypted in place.
Records that can no longer be decrypted are removed and reported as missing.
With --remote every command goes through a running "notevault serve".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.openApp,
	}
	c.flagCfg = config.BindFlags(c.root.PersistentFlags())

	c.root.AddCommand(
		c.saveCmd(),
		c.loadCmd(),
		c.inspectCmd(),
		c.removeCmd(),
		c.clearCmd(),
		c.migrateCmd(),
		c.runCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute implements [Client].
func (c *CLI) Execute(ctx context.Context) error {
	defer c.closeApp()
	return c.root.ExecuteContext(ctx)
}

func defaultLogger(cfg *config.StructuredConfig) *logger.Logger {
	if cfg.LogFile == "" {
		return logger.Nop()
	}
	return logger.NewClientLogger("notevault", cfg.LogFile)
}

func (c *CLI) openApp(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipAppAnnotation] != "" {
		return nil
	}

	cfg, err := config.GetStructuredConfig(c.flagCfg)
	if err != nil {
		return err
	}
	c.logger = c.newLogger(cfg)
	c.logger.Debug().Str("func", "CLI.openApp").Str("command", cmd.Name()).Str("driver", cfg.Storage.Driver).Msg("starting command")

	app, err := NewApp(cmd.Context(), cfg, c.logger)
	if err != nil {
		return err
	}
	c.app = app
	return nil
}

func (c *CLI) closeApp() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		c.logger.Err(err).Str("func", "CLI.closeApp").Msg("error closing storage")
	}
	c.app = nil
}

func (c *CLI) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), c.buildInfo.String())
			return err
		},
	}
}
