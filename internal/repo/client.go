package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/deckrepo/deckrepo-manager/internal/config"
	"github.com/deckrepo/deckrepo-manager/internal/http"
	"github.com/deckrepo/deckrepo-manager/internal/model"
	"github.com/deckrepo/deckrepo-manager/internal/repo/dto"
)

// ErrCatalogUnavailable is returned when neither the network nor the
// on-disk cache could produce a catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Client fetches the remote catalog and resolves per-item download URLs.
//
// Catalog fetches are network-first with a cache fallback: a successful
// network response is persisted verbatim to the cache file and wins
// outright, even when it contains few or no posts. The cache is only
// consulted when the network was skipped or failed.
type Client struct {
	settings   *config.Settings
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a catalog client around the given settings.
func NewClient(settings *config.Settings) *Client {
	return &Client{
		settings:   settings,
		httpClient: http.NewClient(),
		logger:     slog.Default().With("component", "repo"),
	}
}

// FetchPosts returns a catalog snapshot, applying the network/cache
// fallback policy.
//
// The network is attempted when forceRefresh is set or no cache file
// exists. On network failure the cache is tried; a corrupt cache is
// discarded silently. ErrCatalogUnavailable is returned only when a
// network error was recorded and the cache could not help. First run
// with neither data source recorded is an empty snapshot, not an error.
func (c *Client) FetchPosts(ctx context.Context, forceRefresh bool) (model.CatalogSnapshot, error) {
	var (
		items    []model.CatalogItem
		haveData bool
		netErr   error
	)

	cacheExists := fileExists(c.settings.CachePath)

	if forceRefresh || !cacheExists {
		body, err := c.httpClient.Get(ctx, c.settings.CatalogURL())
		if err == nil {
			doc, perr := dto.ParseDocument(body)
			if perr == nil {
				items = c.toItems(doc)
				haveData = true
				c.writeCache(body)
			} else {
				netErr = fmt.Errorf("malformed catalog response: %w", perr)
			}
		} else {
			netErr = err
		}
	}

	if !haveData && cacheExists {
		body, err := os.ReadFile(c.settings.CachePath)
		if err == nil {
			if doc, perr := dto.ParseDocument(body); perr == nil {
				items = c.toItems(doc)
				return model.CatalogSnapshot{Items: items, Source: model.SourceCache}, nil
			}
			// Corrupt cache is discarded, never surfaced.
			c.logger.Warn("discarding corrupt catalog cache", "path", c.settings.CachePath)
		}
	}

	if haveData {
		return model.CatalogSnapshot{Items: items, Source: model.SourceNetwork}, nil
	}

	if netErr != nil {
		return model.CatalogSnapshot{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, netErr)
	}

	// No network attempt recorded and no usable cache: an empty snapshot
	// tagged with neither source.
	return model.CatalogSnapshot{Source: model.SourceNone}, nil
}

// ResolveDownloadURL follows the item's download endpoint redirect and
// returns the direct asset URL. HEAD is preferred, GET is the fallback.
func (c *Client) ResolveDownloadURL(ctx context.Context, postID string) (string, error) {
	return c.httpClient.ResolveFinalURL(ctx, c.settings.DownloadURL(postID))
}

// toItems converts the wire document to model items in order.
func (c *Client) toItems(doc *dto.Document) []model.CatalogItem {
	items := make([]model.CatalogItem, 0, len(doc.Posts))
	for i := range doc.Posts {
		p := &doc.Posts[i]
		items = append(items, p.ToItem(c.settings.DownloadURL(p.ID)))
	}
	return items
}

// writeCache persists the raw catalog body. Failure to write the cache
// never fails the fetch.
func (c *Client) writeCache(body []byte) {
	dir := filepath.Dir(c.settings.CachePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		c.logger.Warn("cannot create cache directory", "path", dir, "error", err)
		return
	}
	if err := os.WriteFile(c.settings.CachePath, body, 0644); err != nil {
		c.logger.Warn("cannot write catalog cache", "path", c.settings.CachePath, "error", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
