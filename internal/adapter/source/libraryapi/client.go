// Package libraryapi is the remote per-user library client.
package libraryapi

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/mmcdole/arcade/internal/adapter/remote"
	"github.com/mmcdole/arcade/internal/domain"
)

const libraryPath = "/user/library"

// Client implements domain.LibraryRepository
type Client struct {
	transport *remote.Transport
	logger    *slog.Logger
}

// NewClient creates a library client authenticated with a bearer token
func NewClient(opts remote.Options, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "library"
	}
	t := remote.New(opts, logger)
	if token != "" {
		t.SetHeader("Authorization", "Bearer "+token)
	}
	return &Client{transport: t, logger: logger}
}

// BaseURL returns the remote library base URL
func (c *Client) BaseURL() string { return c.transport.BaseURL() }

// GetLibrary returns every entry in the user's library.
// A non-array body is treated as an empty library.
func (c *Client) GetLibrary(ctx context.Context) ([]domain.LibraryEntry, error) {
	body, err := c.transport.Do(ctx, http.MethodGet, libraryPath, nil, nil)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		c.logger.Warn("library response is not a list, treating as empty", "bodyLen", len(body))
		return []domain.LibraryEntry{}, nil
	}

	var dtos []EntryDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		c.logger.Error("JSON parse error", "error", err, "bodyLen", len(body))
		return nil, &domain.Error{Kind: domain.KindRemote, Op: "library GET " + libraryPath, Message: "malformed response", Err: err}
	}
	return MapEntries(dtos), nil
}

// AddGame creates an entry with default flags and returns it as stored
func (c *Client) AddGame(ctx context.Context, entry domain.LibraryEntry) (domain.LibraryEntry, error) {
	var resp EntryDTO
	if err := c.transport.DoJSON(ctx, http.MethodPost, libraryPath, nil, NewAddRequest(entry), &resp); err != nil {
		return domain.LibraryEntry{}, err
	}

	created, ok := MapEntry(resp)
	if !ok {
		// Server did not echo the entry; fall back to what was sent
		created = entry
		created.Favorite, created.Installed, created.LastPlayed = false, false, nil
	}
	created.LocalOnly = false
	return created, nil
}

// UpdateEntry applies a partial update to the entry for game id
func (c *Client) UpdateEntry(ctx context.Context, id int, patch domain.LibraryPatch) error {
	path := fmt.Sprintf("%s/%d", libraryPath, id)
	return c.transport.DoJSON(ctx, http.MethodPatch, path, nil, NewPatchRequest(patch), nil)
}
