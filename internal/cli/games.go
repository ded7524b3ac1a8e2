package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/filters"
)

// GamesListOptions holds flags for the games list command.
type GamesListOptions struct {
	*RootOptions
	Page       int
	Categories []int
	Tags       []int
	Year       string
	MinRating  int
	Query      string
}

// GamesShowOptions holds flags for the games show command.
type GamesShowOptions struct {
	*RootOptions
	Open bool
}

// GamesSearchOptions holds flags for the games search command.
type GamesSearchOptions struct {
	*RootOptions
	Genre    string
	Platform string
	Price    string
	Sort     string
}

// NewGamesCommand creates the games command group.
func NewGamesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse the game catalog",
	}
	cmd.AddCommand(newGamesListCommand(rootOpts))
	cmd.AddCommand(newGamesShowCommand(rootOpts))
	cmd.AddCommand(newGamesSearchCommand(rootOpts))
	return cmd
}

func newGamesListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GamesListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of games matching the filters",
		Long: `List one page of games matching the filters.

Year accepts "2020", "2015-2019" or a preset label such as "Before 2000".

Example:
  arcade games list --category 4 --year 2015-2019 --min-rating 80 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listGames(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntSliceVar(&opts.Categories, "category", nil, "genre id (repeatable)")
	cmd.Flags().IntSliceVar(&opts.Tags, "tag", nil, "tag id (repeatable)")
	cmd.Flags().StringVar(&opts.Year, "year", "", "release year, range or preset")
	cmd.Flags().IntVar(&opts.MinRating, "min-rating", 0, "minimum metacritic score (0-100)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "free-text search term")

	return cmd
}

func listGames(cmd *cobra.Command, opts *GamesListOptions) error {
	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	year := opts.Year
	if preset, ok := filters.Preset(year); ok {
		year = preset.Value
	}

	f := a.Filters
	f.SetCategories(opts.Categories)
	f.SetTags(opts.Tags)
	f.SetYear(year)
	f.SetMinRating(opts.MinRating)
	f.SetSearchQuery(opts.Query)
	if err := f.Validate(); err != nil {
		return err
	}

	page, err := a.Games.List(cmd.Context(), opts.Page)
	if err != nil {
		return err
	}

	controls := a.Games.Pagination()
	out := struct {
		Page       int        `json:"page"`
		TotalPages int        `json:"total_pages"`
		Count      int        `json:"count"`
		Games      []gameJSON `json:"games"`
	}{
		Page:       a.Games.Page().CurrentPage,
		TotalPages: controls.Total,
		Count:      page.Count,
		Games:      toGamesJSON(page.Games),
	}

	return newPrinter(cmd, opts.RootOptions).result(out, func(w io.Writer) {
		writeGames(w, page.Games, "No games match these filters")
		if controls.Total > 0 {
			fmt.Fprintf(w, "\nPage %d of %d (%d games)\n", out.Page, out.TotalPages, out.Count)
		}
	})
}

func newGamesShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GamesShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details and screenshots of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return showGame(cmd, opts, id)
		},
	}

	cmd.Flags().BoolVar(&opts.Open, "open", false, "open the game page in a browser")

	return cmd
}

func showGame(cmd *cobra.Command, opts *GamesShowOptions, id int) error {
	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.Games.Detail(cmd.Context(), id)
	if err != nil {
		return err
	}
	g := detail.Game

	p := newPrinter(cmd, opts.RootOptions)
	if opts.Open {
		if err := a.OpenGame(g); err != nil {
			p.warn("%v", err)
		}
	}

	return p.result(toGameJSON(g), func(w io.Writer) {
		fmt.Fprintln(w, g.Name)
		fmt.Fprintf(w, "Metacritic: %s  Rating: %.1f  Released: %s\n", scoreText(g.Metacritic), g.Rating, g.Released)
		if g.Price != nil {
			fmt.Fprintf(w, "Price: $%.2f\n", *g.Price)
		}
		for _, section := range []struct {
			label string
			refs  []domain.Ref
		}{
			{"Genres", g.Genres},
			{"Platforms", g.Platforms},
			{"Developers", g.Developers},
			{"Publishers", g.Publishers},
			{"Tags", g.Tags},
		} {
			if names := refNames(section.refs); len(names) > 0 {
				fmt.Fprintf(w, "%s: %s\n", section.label, strings.Join(names, ", "))
			}
		}
		if g.DescriptionRaw != "" {
			fmt.Fprintf(w, "\n%s\n", g.DescriptionRaw)
		}
		if len(g.Screenshots) > 0 {
			fmt.Fprintf(w, "\nScreenshots (%d):\n", len(g.Screenshots))
			for _, s := range g.Screenshots {
				fmt.Fprintf(w, "  %s\n", s.Image)
			}
		}
		fmt.Fprintf(w, "\n%s\n", adapter.GamePageURL(g.Slug, g.ID))
	})
}

func newGamesSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GamesSearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Search the catalog.

Price buckets filter the returned page only; the catalog has no price field.

Example:
  arcade games search zelda --platform nintendo --sort rating`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchGames(cmd, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().StringVar(&opts.Genre, "genre", "", "genre slug")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "platform family (pc|playstation|xbox|nintendo|mobile)")
	cmd.Flags().StringVar(&opts.Price, "price", "", "price bucket (free|under10|under20|under30|under60)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort (relevance|price_asc|price_desc|rating|release_date)")

	return cmd
}

func searchGames(cmd *cobra.Command, opts *GamesSearchOptions, q string) error {
	a, err := opts.openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	params := domain.SearchParams{
		Query:    q,
		Genre:    opts.Genre,
		Platform: opts.Platform,
		Price:    opts.Price,
		Sort:     opts.Sort,
	}
	started, err := a.Games.Search(cmd.Context(), params)
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("search query is empty")
	}

	result := a.Games.SearchState().Data
	out := struct {
		Query string     `json:"query"`
		Count int        `json:"count"`
		Games []gameJSON `json:"games"`
	}{
		Query: q,
		Count: result.Count,
		Games: toGamesJSON(result.Games),
	}

	return newPrinter(cmd, opts.RootOptions).result(out, func(w io.Writer) {
		writeGames(w, result.Games, "No results for "+strconv.Quote(q))
	})
}

// parseID parses a positive catalog id
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game id %q", s)
	}
	return id, nil
}
