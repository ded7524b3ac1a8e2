// Package cli wires the cobra command tree. Every command loads the config,
// builds the app and calls into its services.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/app"
)

// ErrNotConfigured is returned by commands that need a catalog API key
var ErrNotConfigured = errors.New("arcade is not configured; run 'arcade setup'")

// ErrNoLibrary is returned by library commands without a remote library
var ErrNoLibrary = errors.New("no remote library configured; run 'arcade setup --library-url URL --library-token TOKEN'")

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Format    string // "json" | "text"
	Verbose   bool

	cfg    *adapter.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Without a subcommand it runs the TUI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "arcade",
		Short:         "Browse a game catalog and manage your library",
		Long:          "Arcade browses a remote game catalog, keeps a wishlist and syncs your game library.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "directory holding config.yaml and .env")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Verbose, "verbose", false, "debug logging")

	cmd.AddCommand(NewTUICommand(opts))
	cmd.AddCommand(NewGamesCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewSetupCommand(opts))

	return cmd
}

// load validates global flags, reads the config and installs the logger
func (o *RootOptions) load() error {
	if !slices.Contains(ValidFormats, o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	var err error
	if o.ConfigDir != "" {
		o.cfg, err = adapter.LoadConfigFrom(o.ConfigDir)
	} else {
		o.cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if o.Verbose {
		o.cfg.Logging.Level = "DEBUG"
	}

	logger, err := adapter.SetupLogger(&o.cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)
	o.logger = logger
	return nil
}

// saveConfig writes the config back where it was loaded from
func (o *RootOptions) saveConfig() error {
	if o.ConfigDir != "" {
		return adapter.SaveConfigTo(o.cfg, o.ConfigDir)
	}
	return adapter.SaveConfig(o.cfg)
}

// openApp builds the app for a command that talks to the catalog
func (o *RootOptions) openApp() (*app.App, error) {
	if !o.cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return app.New(o.cfg, o.logger)
}
