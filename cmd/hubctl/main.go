// Command hubctl browses and administers the hub's catalog from a terminal.
// It acts as a single local client of whatever storage is configured,
// SQLite by default.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/app"
	"github.com/david/youth-hub/internal/config"
	"github.com/david/youth-hub/internal/logging"
	"github.com/david/youth-hub/internal/session"
)

type cli struct {
	verbose    bool
	backend    string
	sqlitePath string

	cfg    *config.Config
	logger *zap.Logger
	hub    *app.App
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Browse and manage the Youth Opportunity Hub",
		Long: `hubctl runs the hub's listing pipeline, account flow and admin editor
against the configured storage backend.

Configuration comes from .env, configs/config.yaml and the environment, the
same as the HTTP server. The CLI is one local client: sign in once and the
session persists between invocations.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&c.backend, "storage", "", "storage backend: memory, sqlite, redis or postgres")
	pf.StringVar(&c.sqlitePath, "db", "", "SQLite file path")

	root.AddCommand(
		c.listCmd(),
		c.showCmd(),
		c.jobsCmd(),
		c.optionsCmd(),
		c.signupCmd(),
		c.loginCmd(),
		c.socialCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.profileCmd(),
		c.bioCmd(),
		c.langCmd(),
		c.matchCmd(),
		c.assistCmd(),
		c.adminCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.sqlitePath != "" {
		cfg.Storage.SQLitePath = c.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger, err = logging.New(level, false)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.hub, err = app.New(cmd.Context(), cfg, c.logger)
	return err
}

// close runs whether or not the command succeeded.
func (c *cli) close() {
	if c.hub != nil {
		if err := c.hub.Close(); err != nil {
			c.logger.Warn("closing storage", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

// session is the CLI's single local client.
func (c *cli) session() *session.Session {
	return c.hub.Sessions.Session("")
}

func (c *cli) language(ctx context.Context) string {
	lang, err := c.session().Language(ctx)
	if err != nil {
		c.logger.Warn("reading language preference", zap.Error(err))
	}
	return lang
}

func (c *cli) t(ctx context.Context, key string, replacements map[string]string) string {
	return c.hub.Translator.T(c.language(ctx), key, replacements)
}

// userError turns sign-in failures into the form's wording.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(session.UserMessage(err))
}

func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	c := &cli{}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
