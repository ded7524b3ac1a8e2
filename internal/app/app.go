// Package app is the composition root. It builds every state module once
// and hands them out by reference.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/adapter/source"
	"github.com/mmcdole/arcade/internal/domain"
	"github.com/mmcdole/arcade/internal/favorites"
	"github.com/mmcdole/arcade/internal/filters"
	"github.com/mmcdole/arcade/internal/games"
	"github.com/mmcdole/arcade/internal/library"
	"github.com/mmcdole/arcade/internal/search"
	"github.com/mmcdole/arcade/internal/store"
)

// App owns the state modules
type App struct {
	Config    *adapter.Config
	Filters   *filters.Model
	Games     *games.Service
	Library   *library.Service
	Favorites *favorites.Cache
	Index     *search.Index
	Launcher  *adapter.Launcher
	Changes   *Broadcaster

	store  *store.Store
	logger *slog.Logger
}

// Deps overrides what New would otherwise build from config
type Deps struct {
	Sources  *source.Sources
	Session  domain.Session
	Store    *store.Store
	Launcher *adapter.Launcher
}

// New builds the app from config
func New(cfg *adapter.Config, logger *slog.Logger) (*App, error) {
	return NewWithDeps(cfg, logger, Deps{})
}

// NewWithDeps builds the app, taking any non-nil dependency from deps
func NewWithDeps(cfg *adapter.Config, logger *slog.Logger, deps Deps) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sources := deps.Sources
	if sources == nil {
		var err error
		sources, err = source.NewSourcesFromConfig(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sources: %w", err)
		}
	}

	session := deps.Session
	if session == nil {
		session = source.NewSession(cfg)
	}

	st := deps.Store
	if st == nil {
		var err error
		st, err = store.Open(cfg.Storage.Path)
		if err != nil {
			// Local persistence is optional; run memory-only
			logger.Warn("failed to open store, running memory-only", "error", err, "path", cfg.Storage.Path)
			st = store.NewMemory()
		}
	}

	launcher := deps.Launcher
	if launcher == nil {
		launcher = adapter.NewLauncher(cfg.Browser, logger)
	}

	changes := &Broadcaster{}
	filterModel := filters.New(changes, logger)

	a := &App{
		Config:    cfg,
		Filters:   filterModel,
		Games:     games.NewService(sources.Catalog, filterModel, cfg.Catalog.PageSize, changes, logger),
		Favorites: favorites.Load(st, changes, logger),
		Index:     search.NewIndex(logger),
		Launcher:  launcher,
		Changes:   changes,
		store:     st,
		logger:    logger,
	}

	var repo domain.LibraryRepository
	if sources.Library != nil {
		repo = sources.Library
	}
	snapshotKey := store.ScopedKey(library.StorageKey, sources.LibraryScope)
	a.Library = library.NewService(repo, st, session, library.Options{
		FallbackDelay: cfg.Sync.FallbackDelay,
		StorageKey:    snapshotKey,
	}, changes, logger)
	if sources.LibraryScope != "" {
		a.pruneSnapshots(snapshotKey)
	}

	changes.Subscribe(domain.ObserverFunc(a.reindex))
	return a, nil
}

// Start seeds local state and runs the first page load and library fetch
// concurrently. A library failure is recorded in the library slice and
// does not fail startup.
func (a *App) Start(ctx context.Context) error {
	if n := a.Library.LoadCached(); n > 0 {
		a.logger.Info("restored library snapshot", "count", n)
	}
	a.rebuildIndex()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.Games.List(ctx, 1)
		return err
	})
	if a.HasLibrary() {
		g.Go(func() error {
			if _, err := a.Library.Fetch(ctx); err != nil {
				a.logger.Warn("initial library fetch failed", "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// HasLibrary reports whether a remote library is configured and writable
func (a *App) HasLibrary() bool {
	return a.Library.CanMutate()
}

// ToggleWishlist adds the game to favorites, or removes it when present
func (a *App) ToggleWishlist(game domain.Game) (bool, error) {
	return a.Favorites.Toggle(domain.NewFavoriteEntry(game))
}

// OpenGame opens the game's catalog page in the browser
func (a *App) OpenGame(game domain.Game) error {
	return a.Launcher.Open(adapter.GamePageURL(game.Slug, game.ID))
}

// Close releases the store
func (a *App) Close() error {
	return a.store.Close()
}

// pruneSnapshots drops library snapshots cached for other remote libraries
func (a *App) pruneSnapshots(keep string) {
	keys, err := a.store.Keys(library.StorageKey)
	if err != nil {
		a.logger.Warn("failed to list library snapshots", "error", err)
		return
	}
	for _, k := range keys {
		if k == keep {
			continue
		}
		if err := a.store.Delete(k); err != nil {
			a.logger.Warn("failed to drop library snapshot", "error", err, "key", k)
			continue
		}
		a.logger.Info("dropped stale library snapshot", "key", k)
	}
}

func (a *App) reindex(c domain.Change) {
	if c.Status != domain.StatusSuccess {
		return
	}
	if c.Slice == domain.SliceLibrary || c.Slice == domain.SliceFavorites {
		a.rebuildIndex()
	}
}

func (a *App) rebuildIndex() {
	a.Index.Clear()
	a.Index.AddLibrary(a.Library.Entries())
	a.Index.AddFavorites(a.Favorites.Items())
}
