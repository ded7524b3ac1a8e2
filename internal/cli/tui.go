package cli

import (
	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/tui"
)

// NewTUICommand creates the tui command. It is also the root default.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rootOpts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *RootOptions) error {
	// First run: ask for the API key before starting
	if !opts.cfg.IsConfigured() {
		if err := runSetup(cmd, &SetupOptions{RootOptions: opts}); err != nil {
			return err
		}
	}

	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts.logger.Info("starting TUI")
	if err := tui.Run(a); err != nil {
		opts.logger.Error("TUI error", "error", err)
		return err
	}
	opts.logger.Info("shutting down")
	return nil
}
