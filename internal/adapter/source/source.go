package source

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/arcade/internal/adapter"
	"github.com/mmcdole/arcade/internal/adapter/remote"
	"github.com/mmcdole/arcade/internal/adapter/source/libraryapi"
	"github.com/mmcdole/arcade/internal/adapter/source/rawg"
	"github.com/mmcdole/arcade/internal/domain"
)

// Sources bundles the remote repositories the orchestrators run against.
// Library is nil when no remote library is configured.
type Sources struct {
	Catalog domain.CatalogRepository
	Library domain.LibraryRepository

	// LibraryScope identifies the library account for local snapshots
	LibraryScope string
}

// NewCatalogClient creates the catalog repository from config
func NewCatalogClient(cfg adapter.CatalogConfig, logger *slog.Logger) (*rawg.Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("catalog API key is required (set catalog.api_key or ARCADE_CATALOG_API_KEY)")
	}

	return rawg.NewClient(remote.Options{
		Name:              "catalog",
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	}, cfg.APIKey, logger), nil
}

// NewLibraryClient creates the library repository from config
func NewLibraryClient(cfg adapter.LibraryConfig, timeout time.Duration, logger *slog.Logger) (*libraryapi.Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("library base URL is required")
	}
	return libraryapi.NewClient(remote.Options{
		Name:    "library",
		BaseURL: cfg.BaseURL,
		Timeout: timeout,
	}, cfg.Token, logger), nil
}

// NewSourcesFromConfig creates every configured remote
func NewSourcesFromConfig(cfg *adapter.Config, logger *slog.Logger) (*Sources, error) {
	catalog, err := NewCatalogClient(cfg.Catalog, logger)
	if err != nil {
		return nil, err
	}

	s := &Sources{Catalog: catalog}
	if cfg.HasLibrary() {
		lib, err := NewLibraryClient(cfg.Library, cfg.Catalog.Timeout, logger)
		if err != nil {
			return nil, err
		}
		s.Library = lib
		s.LibraryScope = cfg.Library.BaseURL
	}
	return s, nil
}
