package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 30 * time.Second

// maxRedirects caps how many chained redirects a single request follows.
const maxRedirects = 10

// ErrTooManyRedirects is returned when a request bounces through more
// redirects than the client is willing to follow.
var ErrTooManyRedirects = errors.New("too many redirects")

// Client wraps HTTP operations for the repo service.
//
// Redirects are followed manually rather than by net/http so that a
// download keeps streaming into the same destination file across hops
// and so the redirect chain length can be bounded.
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch the catalog document
//	body, err := client.Get(ctx, catalogURL)
//
//	// Download an asset with progress
//	err = client.DownloadFile(ctx, videoURL, tempPath, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client with a 30 second timeout and the manager's
// User-Agent header.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Redirect hops are driven by doFollow.
				return http.ErrUseLastResponse
			},
		},
		userAgent: "DeckRepoManager/1.0 (Linux; SteamOS)",
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Total may be zero when the server did not declare a Content-Length;
// the OnUpdate callback still fires with the running byte count.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// isRedirect reports whether the status code asks the client to retry
// against a Location header.
func isRedirect(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// doFollow issues the request with the given method and follows redirects
// manually, resolving relative Location values against the current URL.
// The final non-redirect response is returned with its body open; the
// caller owns closing it.
func (c *Client) doFollow(ctx context.Context, method, rawURL string) (*http.Response, error) {
	current := rawURL
	for hops := 0; hops <= maxRedirects; hops++ {
		req, err := http.NewRequestWithContext(ctx, method, current, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if !isRedirect(resp.StatusCode) {
			return resp, nil
		}

		loc, err := resp.Location()
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("redirect without location from %s: %w", current, err)
		}
		current = loc.String()
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyRedirects, rawURL)
}

// Get performs a GET request and returns the response body as bytes.
//
// Redirects are followed up to the client's cap. A non-200 final status
// is an error.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.doFollow(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// ResolveFinalURL follows redirects from url and returns the final
// target URL without downloading its body.
//
// A HEAD request is preferred; some servers reject HEAD on download
// endpoints, so a GET is retried on failure and its body discarded.
func (c *Client) ResolveFinalURL(ctx context.Context, url string) (string, error) {
	resp, err := c.doFollow(ctx, http.MethodHead, url)
	if err == nil {
		resp.Body.Close()
		return resp.Request.URL.String(), nil
	}

	resp, err = c.doFollow(ctx, http.MethodGet, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return resp.Request.URL.String(), nil
}

// GetFileSize returns the size of a file at the given URL via HEAD request.
//
// Returns an error if the server does not declare a Content-Length.
func (c *Client) GetFileSize(ctx context.Context, url string) (int64, error) {
	resp, err := c.doFollow(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}

	return resp.ContentLength, nil
}

// DownloadFile downloads a file to the specified path with an optional
// progress callback.
//
// The destination is created (or truncated if it exists) and the final
// response body is streamed directly to disk; the whole file is never
// buffered in memory. Redirect hops contribute no bytes: only the final
// 200 body is written.
//
// onProgress, when non-nil, is called after every chunk with the running
// byte count and the declared total (0 when unknown).
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error {
	resp, err := c.doFollow(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer file.Close()

	var writer io.Writer = file
	if onProgress != nil {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		writer = &ProgressWriter{
			Writer:   file,
			Total:    total,
			OnUpdate: onProgress,
		}
	}

	_, err = io.Copy(writer, resp.Body)
	return err
}
