package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/tui/styles"
)

// Column widths for text output
const (
	idWidth    = 8
	nameWidth  = 40
	scoreWidth = 4
)

// printer writes command results as text rows or indented JSON
type printer struct {
	json bool
	out  io.Writer
	err  io.Writer
}

func newPrinter(cmd *cobra.Command, opts *RootOptions) *printer {
	return &printer{
		json: opts.Format == "json",
		out:  cmd.OutOrStdout(),
		err:  cmd.ErrOrStderr(),
	}
}

// result prints v as JSON, or calls text for the text format
func (p *printer) result(v any, text func(w io.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(p.out)
	return nil
}

// warn writes a diagnostic line that never mixes with JSON output
func (p *printer) warn(format string, args ...any) {
	fmt.Fprintf(p.err, "warning: "+format+"\n", args...)
}

// gameJSON is the JSON shape of a catalog game
type gameJSON struct {
	ID          int      `json:"id"`
	Slug        string   `json:"slug,omitempty"`
	Name        string   `json:"name"`
	Metacritic  int      `json:"metacritic"`
	Rating      float64  `json:"rating"`
	Released    string   `json:"released,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Developers  []string `json:"developers,omitempty"`
	Publishers  []string `json:"publishers,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description string   `json:"description,omitempty"`
	Screenshots []string `json:"screenshots,omitempty"`
}

func toGameJSON(g domain.Game) gameJSON {
	out := gameJSON{
		ID:          g.ID,
		Slug:        g.Slug,
		Name:        g.Name,
		Metacritic:  g.Metacritic,
		Rating:      g.Rating,
		Released:    g.Released,
		Genres:      refNames(g.Genres),
		Platforms:   refNames(g.Platforms),
		Developers:  refNames(g.Developers),
		Publishers:  refNames(g.Publishers),
		Tags:        refNames(g.Tags),
		Price:       g.Price,
		Description: g.DescriptionRaw,
	}
	for _, s := range g.Screenshots {
		out.Screenshots = append(out.Screenshots, s.Image)
	}
	return out
}

func toGamesJSON(games []domain.Game) []gameJSON {
	out := make([]gameJSON, len(games))
	for i, g := range games {
		out[i] = toGameJSON(g)
	}
	return out
}

func refNames(refs []domain.Ref) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}

// row formats one id/name/score line followed by optional extra columns
func row(id int, name string, score int, extra ...string) string {
	cols := []string{
		styles.Pad(fmt.Sprint(id), idWidth),
		styles.Pad(styles.Truncate(name, nameWidth), nameWidth),
		styles.Pad(scoreText(score), scoreWidth),
	}
	cols = append(cols, extra...)
	return strings.TrimRight(strings.Join(cols, " "), " ")
}

func scoreText(score int) string {
	if score <= 0 {
		return "-"
	}
	return fmt.Sprint(score)
}

func writeGames(w io.Writer, games []domain.Game, empty string) {
	if len(games) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	for _, g := range games {
		fmt.Fprintln(w, row(g.ID, g.Name, g.Metacritic, yearOf(g.Released)))
	}
}

func yearOf(released string) string {
	if len(released) >= 4 {
		return released[:4]
	}
	return ""
}

func entryFlags(e domain.LibraryEntry) string {
	var flags []string
	if e.Favorite {
		flags = append(flags, "favorite")
	}
	if e.Installed {
		flags = append(flags, "installed")
	}
	if e.LocalOnly {
		flags = append(flags, "local-only")
	}
	return strings.Join(flags, ",")
}

func playedText(t *time.Time) string {
	if t == nil {
		return ""
	}
	return "played " + t.Local().Format("2006-01-02 15:04")
}
