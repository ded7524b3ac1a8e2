package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/arcade/internal/adapter"
)

// SetupOptions holds flags for the setup command.
type SetupOptions struct {
	*RootOptions
	APIKey       string
	LibraryURL   string
	LibraryToken string
	Reset        bool
}

// NewSetupCommand creates the setup command.
func NewSetupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store the catalog API key and remote library settings",
		Long: `Store the catalog API key and remote library settings.

Values not given as flags are prompted for; the API key is read without echo.

Example:
  arcade setup --library-url https://library.example.com --library-token TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "catalog API key")
	cmd.Flags().StringVar(&opts.LibraryURL, "library-url", "", "remote library base URL")
	cmd.Flags().StringVar(&opts.LibraryToken, "library-token", "", "remote library bearer token")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete the local cache database")

	return cmd
}

func runSetup(cmd *cobra.Command, opts *SetupOptions) error {
	cfg := opts.cfg
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	if opts.Reset {
		if err := adapter.ClearStorage(cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, "Local cache cleared.")
	}

	switch {
	case opts.APIKey != "":
		cfg.Catalog.APIKey = strings.TrimSpace(opts.APIKey)
	case !cfg.IsConfigured():
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Welcome to Arcade!")
		fmt.Fprintln(out)
		key, err := promptSecret(cmd, in, "Catalog API key: ")
		if err != nil {
			return err
		}
		if key == "" {
			return fmt.Errorf("API key cannot be empty")
		}
		cfg.Catalog.APIKey = key
	}

	if opts.LibraryURL != "" {
		cfg.Library.BaseURL = strings.TrimRight(strings.TrimSpace(opts.LibraryURL), "/")
	}
	if opts.LibraryToken != "" {
		cfg.Library.Token = strings.TrimSpace(opts.LibraryToken)
	}

	if err := opts.saveConfig(); err != nil {
		return err
	}

	fmt.Fprintln(out, "✓ Configuration saved")
	if !cfg.HasLibrary() {
		fmt.Fprintln(out, "No remote library configured; only the catalog and wishlist are available.")
	}
	return nil
}

// promptSecret reads a line without echo when stdin is a terminal
func promptSecret(cmd *cobra.Command, in *bufio.Reader, prompt string) (string, error) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
