// Package rawg is the remote game catalog client.
package rawg

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/mmcdole/arcade/internal/adapter/remote"
	"github.com/mmcdole/arcade/internal/domain"
)

// Client implements domain.CatalogRepository
type Client struct {
	transport *remote.Transport
	logger    *slog.Logger
}

// NewClient creates a catalog client. The API key is sent as the "key"
// query parameter on every request.
func NewClient(opts remote.Options, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Name == "" {
		opts.Name = "catalog"
	}
	t := remote.New(opts, logger)
	t.SetQueryParam("key", apiKey)
	return &Client{transport: t, logger: logger}
}

// ListGames returns one page of /games for the translated parameters
func (c *Client) ListGames(ctx context.Context, params url.Values) (domain.GamePage, error) {
	var resp GameList
	if err := c.transport.Get(ctx, "/games", params, &resp); err != nil {
		return domain.GamePage{}, err
	}
	return MapGamePage(resp), nil
}

// GetGame returns the detail snapshot of a game
func (c *Client) GetGame(ctx context.Context, id int) (domain.Game, error) {
	var resp GameDTO
	if err := c.transport.Get(ctx, fmt.Sprintf("/games/%d", id), nil, &resp); err != nil {
		return domain.Game{}, err
	}
	return MapGame(resp), nil
}

// GetScreenshots returns a game's screenshots
func (c *Client) GetScreenshots(ctx context.Context, id int) ([]domain.Screenshot, error) {
	var resp ScreenshotList
	if err := c.transport.Get(ctx, fmt.Sprintf("/games/%d/screenshots", id), nil, &resp); err != nil {
		return nil, err
	}
	return MapScreenshots(resp.Results), nil
}
