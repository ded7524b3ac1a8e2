package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/app"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/library"
	"github.com/mmcdole/arcade/internal/search"
)

// LibraryListOptions holds flags for the library list command.
type LibraryListOptions struct {
	*RootOptions
	View    string
	Filter  string
	Offline bool
}

// LibraryToggleOptions holds flags for the favorite and install commands.
type LibraryToggleOptions struct {
	*RootOptions
	On  bool
	Off bool
}

// NewLibraryCommand creates the library command group.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage your remote game library",
	}
	cmd.AddCommand(newLibraryListCommand(rootOpts))
	cmd.AddCommand(newLibraryAddCommand(rootOpts))
	cmd.AddCommand(newLibraryToggleCommand(rootOpts, library.FieldFavorite, "favorite", "Toggle the favorite flag of a game"))
	cmd.AddCommand(newLibraryToggleCommand(rootOpts, library.FieldInstalled, "install", "Toggle the installed flag of a game"))
	cmd.AddCommand(newLibraryPlayedCommand(rootOpts))
	return cmd
}

func newLibraryListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the games in your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listLibrary(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", string(library.ViewAll), "view (all|installed|favorites|recent)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "fuzzy filter on titles")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "use the cached library without fetching")

	return cmd
}

func listLibrary(cmd *cobra.Command, opts *LibraryListOptions) error {
	view := library.View(opts.View)
	if !slices.Contains(library.Views, view) {
		return fmt.Errorf("invalid view %q: must be one of %v", opts.View, library.Views)
	}

	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	p := newPrinter(cmd, opts.RootOptions)
	if !a.HasLibrary() {
		return ErrNoLibrary
	}
	if err := loadLibrary(cmd.Context(), a, p, opts.Offline); err != nil {
		return err
	}

	entries := search.FilterEntries(a.Library.View(view), opts.Filter)
	return p.result(entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No games in this view")
			return
		}
		for _, e := range entries {
			fmt.Fprintln(w, row(e.ID, e.Name, e.Metacritic, entryFlags(e), playedText(e.LastPlayed)))
		}
	})
}

// loadLibrary reads the cached snapshot then refreshes it from the remote
// library. A failed refresh falls back to the snapshot when one exists.
func loadLibrary(ctx context.Context, a *app.App, p *printer, offline bool) error {
	cached := a.Library.LoadCached()
	if offline {
		return nil
	}
	if _, err := a.Library.Fetch(ctx); err != nil {
		if cached == 0 {
			return err
		}
		p.warn("showing cached library: %v", err)
	}
	return nil
}

func newLibraryAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Add a catalog game to your library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, p, err := openLibrary(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			game, err := resolveGame(cmd.Context(), a, id)
			if err != nil {
				return err
			}
			entry, err := a.Library.Add(cmd.Context(), game)
			if err != nil {
				return err
			}
			return p.result(entry, func(w io.Writer) {
				fmt.Fprintf(w, "Added %s\n", entry.Name)
			})
		},
	}
}

func newLibraryToggleCommand(rootOpts *RootOptions, field library.Field, use, short string) *cobra.Command {
	opts := &LibraryToggleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Long: short + `.

Without --on or --off the flag is flipped; a game not yet in the library is
added first. --on and --off set the flag on a game already in the library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return toggleField(cmd, opts, field, id)
		},
	}

	cmd.Flags().BoolVar(&opts.On, "on", false, "set the flag")
	cmd.Flags().BoolVar(&opts.Off, "off", false, "clear the flag")
	cmd.MarkFlagsMutuallyExclusive("on", "off")

	return cmd
}

func toggleField(cmd *cobra.Command, opts *LibraryToggleOptions, field library.Field, id int) error {
	a, p, err := openLibrary(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	outcome := library.OutcomeRemote
	if opts.On || opts.Off {
		if field == library.FieldFavorite {
			err = a.Library.SetFavorite(ctx, id, opts.On)
		} else {
			err = a.Library.SetInstalled(ctx, id, opts.On)
		}
	} else {
		var game domain.Game
		if game, err = resolveGame(ctx, a, id); err != nil {
			return err
		}
		if field == library.FieldFavorite {
			outcome, err = a.Library.ToggleFavorite(ctx, game)
		} else {
			outcome, err = a.Library.ToggleInstalled(ctx, game)
		}
	}
	if err != nil {
		return err
	}

	entry, _ := a.Library.Entry(id)
	out := struct {
		Entry   domain.LibraryEntry `json:"entry"`
		Outcome string              `json:"outcome"`
	}{entry, outcome.String()}

	return p.result(out, func(w io.Writer) {
		state := "off"
		if (field == library.FieldFavorite && entry.Favorite) || (field == library.FieldInstalled && entry.Installed) {
			state = "on"
		}
		fmt.Fprintf(w, "%s: %s %s\n", entry.Name, field, state)
		if outcome == library.OutcomeLocalOnly {
			fmt.Fprintln(w, "The library could not be reached; the change is saved locally only.")
		}
	})
}

func newLibraryPlayedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "played <id>",
		Short: "Record that you just played a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, p, err := openLibrary(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			ts, err := a.Library.UpdateLastPlayed(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := struct {
				ID         int    `json:"id"`
				LastPlayed string `json:"lastPlayed"`
			}{id, ts.Format(time.RFC3339)}

			return p.result(out, func(w io.Writer) {
				fmt.Fprintf(w, "Marked %d %s\n", id, playedText(&ts))
			})
		},
	}
}

// openLibrary builds the app and loads the library for a mutating command
func openLibrary(cmd *cobra.Command, opts *RootOptions) (*app.App, *printer, error) {
	a, err := opts.openApp()
	if err != nil {
		return nil, nil, err
	}
	if !a.HasLibrary() {
		a.Close()
		return nil, nil, ErrNoLibrary
	}

	p := newPrinter(cmd, opts)
	if err := loadLibrary(cmd.Context(), a, p, false); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, p, nil
}

// resolveGame returns the library copy of a game, or fetches it from the catalog
func resolveGame(ctx context.Context, a *app.App, id int) (domain.Game, error) {
	if e, ok := a.Library.Entry(id); ok {
		return domain.Game{
			ID:              e.ID,
			Name:            e.Name,
			BackgroundImage: e.BackgroundImage,
			Genres:          e.Genres,
			Metacritic:      e.Metacritic,
		}, nil
	}
	detail, err := a.Games.Detail(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}
	return detail.Game, nil
}
