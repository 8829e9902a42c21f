// Package repo talks to the remote video catalog service.
//
// # Catalog Fetching
//
// Client.FetchPosts applies a network-first, cache-fallback policy:
//
//  1. The network is attempted when a refresh is forced or no cache
//     file exists. A successful response is persisted verbatim to the
//     cache (best-effort) and returned tagged as coming from the
//     network.
//  2. Otherwise the cache file is parsed. A corrupt cache is discarded
//     silently.
//  3. With neither source usable, ErrCatalogUnavailable is returned
//     only when a network error was actually recorded; a true first
//     run yields an empty snapshot without error.
//
// # Download URL Resolution
//
// Assets are served through a redirecting download endpoint. Use
// ResolveDownloadURL to obtain the direct URL:
//
//	url, err := client.ResolveDownloadURL(ctx, item.ID)
package repo
