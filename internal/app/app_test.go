package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/search"
	"github.com/mmcdole/arcade/internal/testutil"
)

type env struct {
	cfg     *adapter.Config
	catalog *testutil.FakeCatalog
	library *testutil.FakeLibrary
}

func newEnv(t *testing.T) env {
	t.Helper()
	catalog := testutil.NewFakeCatalog(testutil.Games(30)...)
	catalog.APIKey = "k"
	t.Cleanup(catalog.Close)

	library := testutil.NewFakeLibrary(testutil.Entry(1, "Celeste"), testutil.Entry(2, "Hades"))
	library.Token = "tok"
	t.Cleanup(library.Close)

	cfg := adapter.DefaultConfig()
	cfg.Catalog.BaseURL = catalog.URL
	cfg.Catalog.APIKey = "k"
	cfg.Catalog.RequestsPerSecond = 0
	cfg.Library.BaseURL = library.URL
	cfg.Library.Token = "tok"
	cfg.Sync.FallbackDelay = -1
	cfg.Storage.Path = filepath.Join(t.TempDir(), "arcade.db")
	return env{cfg: cfg, catalog: catalog, library: library}
}

func open(t *testing.T, cfg *adapter.Config) *App {
	t.Helper()
	a, err := New(cfg, adapter.NullLogger())
	require.NoError(t, err)
	return a
}

func TestStartLoadsFirstPageAndLibrary(t *testing.T) {
	e := newEnv(t)
	a := open(t, e.cfg)
	defer a.Close()

	var mu sync.Mutex
	var changes []domain.Slice
	a.Changes.Subscribe(domain.ObserverFunc(func(c domain.Change) {
		mu.Lock()
		changes = append(changes, c.Slice)
		mu.Unlock()
	}))

	require.NoError(t, a.Start(context.Background()))

	assert.True(t, a.HasLibrary())
	assert.Len(t, a.Games.ListState().Data.Games, 12)
	assert.Equal(t, 1, a.Games.Page().CurrentPage)
	assert.Len(t, a.Library.Entries(), 2)
	assert.Contains(t, changes, domain.SliceGameList)
	assert.Contains(t, changes, domain.SliceLibrary)

	got := a.Index.Filter("hades")
	require.Len(t, got, 1)
	assert.Equal(t, search.KindLibrary, got[0].Kind)
}

func TestStartFailsOnCatalogError(t *testing.T) {
	e := newEnv(t)
	e.catalog.Fail(testutil.RouteList, 400, `{"error":"bad key"}`, -1)
	a := open(t, e.cfg)
	defer a.Close()

	err := a.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, "bad key", a.Games.ListState().Err.Message)
}

func TestWithoutLibrary(t *testing.T) {
	e := newEnv(t)
	e.cfg.Library = adapter.LibraryConfig{}
	a := open(t, e.cfg)
	defer a.Close()

	require.NoError(t, a.Start(context.Background()))
	assert.False(t, a.HasLibrary())

	_, err := a.Library.ToggleFavorite(context.Background(), domain.Game{ID: 1})
	assert.ErrorIs(t, err, domain.ErrNotPermitted)
}

func TestToggleWishlistReindexes(t *testing.T) {
	e := newEnv(t)
	a := open(t, e.cfg)
	defer a.Close()

	portal := domain.Game{ID: 42, Name: "Portal", Metacritic: 90}

	added, err := a.ToggleWishlist(portal)
	require.NoError(t, err)
	assert.True(t, added)
	require.Len(t, a.Index.Filter("portal"), 1)

	added, err = a.ToggleWishlist(portal)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Empty(t, a.Index.Filter("portal"))
}

func TestStateSurvivesRestart(t *testing.T) {
	e := newEnv(t)
	a := open(t, e.cfg)

	require.NoError(t, a.Start(context.Background()))
	_, err := a.ToggleWishlist(domain.Game{ID: 42, Name: "Portal"})
	require.NoError(t, err)
	require.NoError(t, a.Close())

	// Offline restart: the library comes from the snapshot
	e.library.Fail(testutil.RouteLibraryGet, 401, `{"message":"Unauthorized"}`, -1)
	b := open(t, e.cfg)
	defer b.Close()

	require.NoError(t, b.Start(context.Background()))
	assert.Len(t, b.Library.Entries(), 2)
	assert.True(t, b.Favorites.Contains(42))
	assert.Equal(t, domain.StatusFailure, b.Library.FetchState().Status)
}

func TestSwitchingLibraryDropsOldSnapshot(t *testing.T) {
	e := newEnv(t)
	a := open(t, e.cfg)
	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, a.Close())

	other := testutil.NewFakeLibrary()
	other.Token = "tok"
	defer other.Close()

	original := e.cfg.Library.BaseURL
	e.cfg.Library.BaseURL = other.URL
	b := open(t, e.cfg)
	require.NoError(t, b.Close())

	// Back on the first library while it is unreachable: nothing cached
	e.cfg.Library.BaseURL = original
	e.library.Fail(testutil.RouteLibraryGet, 401, `{"message":"Unauthorized"}`, -1)
	c := open(t, e.cfg)
	defer c.Close()
	assert.Equal(t, 0, c.Library.LoadCached())
}

func TestBroadcaster(t *testing.T) {
	var b Broadcaster
	var got []int
	b.Subscribe(domain.ObserverFunc(func(c domain.Change) { got = append(got, c.GameID) }))
	b.Subscribe(domain.ObserverFunc(func(c domain.Change) { got = append(got, -c.GameID) }))

	b.OnChange(domain.Change{Slice: domain.SliceDetail, GameID: 7})
	assert.Equal(t, []int{7, -7}, got)
}
