package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/search"
)

// FavoritesListOptions holds flags for the favorites list command.
type FavoritesListOptions struct {
	*RootOptions
	Filter string
}

// NewFavoritesCommand creates the favorites (wishlist) command group.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"wishlist"},
		Short:   "Manage the local wishlist",
	}
	cmd.AddCommand(newFavoritesListCommand(rootOpts))
	cmd.AddCommand(newFavoritesAddCommand(rootOpts))
	cmd.AddCommand(newFavoritesRemoveCommand(rootOpts))
	cmd.AddCommand(newFavoritesClearCommand(rootOpts))
	return cmd
}

func newFavoritesListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FavoritesListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wishlisted games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			items := rankFavorites(a.Favorites.Items(), opts.Filter)
			return newPrinter(cmd, opts.RootOptions).result(items, func(w io.Writer) {
				if len(items) == 0 {
					fmt.Fprintln(w, "Your wishlist is empty")
					return
				}
				for _, f := range items {
					fmt.Fprintln(w, row(f.ID, f.Name, f.Metacritic))
				}
			})
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "fuzzy filter on titles")

	return cmd
}

// rankFavorites orders favorites by match quality; a blank query keeps them all
func rankFavorites(items []domain.FavoriteEntry, query string) []domain.FavoriteEntry {
	titles := make([]string, len(items))
	for i, f := range items {
		titles[i] = f.Name
	}
	order := search.RankTitles(query, titles)
	if order == nil {
		return items
	}
	out := make([]domain.FavoriteEntry, len(order))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return out
}

func newFavoritesAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Add a catalog game to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			detail, err := a.Games.Detail(cmd.Context(), id)
			if err != nil {
				return err
			}
			entry := domain.NewFavoriteEntry(detail.Game)
			if err := a.Favorites.Add(entry); err != nil {
				return err
			}
			return newPrinter(cmd, rootOpts).result(entry, func(w io.Writer) {
				fmt.Fprintf(w, "Added to wishlist: %s\n", entry.Name)
			})
		},
	}
}

func newFavoritesRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a game from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.Favorites.Contains(id) {
				return fmt.Errorf("game %d is not on the wishlist: %w", id, domain.ErrNotFound)
			}
			if err := a.Favorites.Remove(id); err != nil {
				return err
			}
			return newPrinter(cmd, rootOpts).result(map[string]int{"removed": id}, func(w io.Writer) {
				fmt.Fprintf(w, "Removed %d from wishlist\n", id)
			})
		},
	}
}

func newFavoritesClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every game from the wishlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			n := a.Favorites.Len()
			if err := a.Favorites.Clear(); err != nil {
				return err
			}
			return newPrinter(cmd, rootOpts).result(map[string]int{"removed": n}, func(w io.Writer) {
				fmt.Fprintf(w, "Cleared %d games from wishlist\n", n)
			})
		},
	}
}
