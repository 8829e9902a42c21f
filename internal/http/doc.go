// Package http provides the HTTP client used for catalog and asset
// requests against the repo service.
//
// The Client in this package handles:
//   - A fixed User-Agent header
//   - Bounded request timeouts (30s)
//   - Manual redirect following with a hop cap
//   - Streaming file downloads with progress tracking
//   - Download-URL resolution via HEAD with GET fallback
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch the catalog document
//	body, err := client.Get(ctx, "https://steamdeckrepo.com/api/posts/all")
//
//	// Download an asset with a progress callback
//	client.DownloadFile(ctx, videoURL, tempPath, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress
// tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
