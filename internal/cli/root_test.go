package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/testutil"
)

type cliEnv struct {
	dir     string
	catalog *testutil.FakeCatalog
	library *testutil.FakeLibrary
}

// newCLIEnv writes a config.yaml pointing at fake servers
func newCLIEnv(t *testing.T, withLibrary bool) cliEnv {
	t.Helper()
	dir := t.TempDir()

	catalog := testutil.NewFakeCatalog(testutil.Games(30)...)
	catalog.APIKey = "k"
	t.Cleanup(catalog.Close)

	e := cliEnv{dir: dir, catalog: catalog}
	libraryURL, token := "", ""
	if withLibrary {
		e.library = testutil.NewFakeLibrary(testutil.Entry(1, "Game 1"), testutil.Entry(2, "Game 2"))
		e.library.Token = "tok"
		t.Cleanup(e.library.Close)
		libraryURL, token = e.library.URL, "tok"
	}

	config := fmt.Sprintf(`catalog:
  base_url: %s
  api_key: k
  requests_per_second: 0
library:
  base_url: %q
  token: %q
sync:
  fallback_delay: -1ns
storage:
  path: %s
logging:
  file: %s
`, catalog.URL, libraryURL, token, filepath.Join(dir, "arcade.db"), filepath.Join(dir, "arcade.log"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(config), 0o644))
	return e
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runIn(t, e.dir, "", args...)
}

func runIn(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand("test")
	commands := [][]string{
		{"tui"},
		{"setup"},
		{"games", "list"}, {"games", "show"}, {"games", "search"},
		{"library", "list"}, {"library", "add"}, {"library", "favorite"}, {"library", "install"}, {"library", "played"},
		{"favorites", "list"}, {"favorites", "add"}, {"favorites", "remove"}, {"favorites", "clear"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand("1.2.3")
	assert.Equal(t, "1.2.3", cmd.Version)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config-dir"))
}

func TestInvalidFormat(t *testing.T) {
	e := newCLIEnv(t, false)
	_, err := e.run(t, "--format", "xml", "games", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestNotConfigured(t *testing.T) {
	_, err := runIn(t, t.TempDir(), "", "games", "list")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGamesListJSON(t *testing.T) {
	e := newCLIEnv(t, false)

	out, err := e.run(t, "--format", "json", "games", "list", "--page", "2")
	require.NoError(t, err)

	var got struct {
		Page       int        `json:"page"`
		TotalPages int        `json:"total_pages"`
		Count      int        `json:"count"`
		Games      []gameJSON `json:"games"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 30, got.Count)
	require.Len(t, got.Games, 12)
	assert.Equal(t, "Game 13", got.Games[0].Name)
	assert.Equal(t, []string{"Action"}, got.Games[0].Genres)
}

func TestGamesListSendsFilters(t *testing.T) {
	e := newCLIEnv(t, false)

	out, err := e.run(t, "games", "list", "--category", "4", "--year", "Before 2000", "--min-rating", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 1")
	assert.Contains(t, out, "Page 1 of 3 (30 games)")

	reqs := e.catalog.Requests()
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	assert.Equal(t, "4", last.Get("genres"))
	assert.Equal(t, "1950-01-01,1999-12-31", last.Get("dates"))
	assert.Equal(t, "80,100", last.Get("metacritic"))
}

func TestGamesListRejectsInvalidFilters(t *testing.T) {
	e := newCLIEnv(t, false)

	_, err := e.run(t, "games", "list", "--min-rating", "150")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, e.catalog.Requests())
}

func TestGamesShow(t *testing.T) {
	e := newCLIEnv(t, false)

	out, err := e.run(t, "games", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 3")
	assert.Contains(t, out, "Genres: Action")
	assert.Contains(t, out, adapter.GamePageURL("game-3", 3))
}

func TestGamesShowInvalidID(t *testing.T) {
	e := newCLIEnv(t, false)
	_, err := e.run(t, "games", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid game id "abc"`)
}

func TestGamesSearch(t *testing.T) {
	e := newCLIEnv(t, false)

	out, err := e.run(t, "games", "search", "game", "one", "--platform", "pc")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 1")

	reqs := e.catalog.Requests()
	require.NotEmpty(t, reqs)
	assert.Equal(t, "game one", reqs[len(reqs)-1].Get("search"))
}

func TestGamesSearchRejectsUnknownPrice(t *testing.T) {
	e := newCLIEnv(t, false)
	_, err := e.run(t, "games", "search", "zelda", "--price", "cheap")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLibraryWithoutRemote(t *testing.T) {
	e := newCLIEnv(t, false)
	_, err := e.run(t, "library", "list")
	assert.ErrorIs(t, err, ErrNoLibrary)
}

func TestLibraryList(t *testing.T) {
	e := newCLIEnv(t, true)

	out, err := e.run(t, "--format", "json", "library", "list")
	require.NoError(t, err)

	var entries []domain.LibraryEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Game 1", entries[0].Name)
}

func TestLibraryListRejectsUnknownView(t *testing.T) {
	e := newCLIEnv(t, true)
	_, err := e.run(t, "library", "list", "--view", "wishlist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid view "wishlist"`)
}

func TestLibraryFavoriteToggles(t *testing.T) {
	e := newCLIEnv(t, true)

	out, err := e.run(t, "library", "favorite", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 1: favorite on")

	entry, ok := e.library.Entry(1)
	require.True(t, ok)
	assert.True(t, entry.Favorite)

	out, err = e.run(t, "library", "list", "--view", "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 1")
	assert.NotContains(t, out, "Game 2")
}

func TestLibraryInstallAddsAbsentGame(t *testing.T) {
	e := newCLIEnv(t, true)

	out, err := e.run(t, "library", "install", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 5: installed on")

	require.Len(t, e.library.Posts(), 1)
	entry, ok := e.library.Entry(5)
	require.True(t, ok)
	assert.True(t, entry.Installed)
}

func TestLibrarySetOnAbsentGameIsNotFound(t *testing.T) {
	e := newCLIEnv(t, true)
	_, err := e.run(t, "library", "favorite", "9", "--on")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLibraryPlayed(t *testing.T) {
	e := newCLIEnv(t, true)

	out, err := e.run(t, "library", "played", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Marked 2 played")

	entry, ok := e.library.Entry(2)
	require.True(t, ok)
	assert.NotNil(t, entry.LastPlayed)
}

func TestFavoritesLifecycle(t *testing.T) {
	e := newCLIEnv(t, false)

	out, err := e.run(t, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your wishlist is empty")

	_, err = e.run(t, "favorites", "add", "3")
	require.NoError(t, err)
	_, err = e.run(t, "wishlist", "add", "7")
	require.NoError(t, err)

	out, err = e.run(t, "--format", "json", "favorites", "list")
	require.NoError(t, err)
	var items []domain.FavoriteEntry
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Game 3", items[0].Name)

	out, err = e.run(t, "favorites", "list", "--filter", "game 7")
	require.NoError(t, err)
	assert.Contains(t, out, "Game 7")
	assert.NotContains(t, out, "Game 3")

	_, err = e.run(t, "favorites", "remove", "3")
	require.NoError(t, err)
	_, err = e.run(t, "favorites", "remove", "3")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = e.run(t, "favorites", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 games")
}

func TestSetupWithFlags(t *testing.T) {
	dir := t.TempDir()

	out, err := runIn(t, dir, "", "setup", "--api-key", "abc", "--library-url", "https://lib.example.com/", "--library-token", "t")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration saved")

	cfg, err := adapter.LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Catalog.APIKey)
	assert.Equal(t, "https://lib.example.com", cfg.Library.BaseURL)
	assert.Equal(t, "t", cfg.Library.Token)
}

func TestSetupPromptsForKey(t *testing.T) {
	dir := t.TempDir()

	out, err := runIn(t, dir, "secret\n", "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog API key:")
	assert.Contains(t, out, "No remote library configured")

	cfg, err := adapter.LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Catalog.APIKey)
}

func TestSetupRejectsEmptyKey(t *testing.T) {
	_, err := runIn(t, t.TempDir(), "\n", "setup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key cannot be empty")
}
