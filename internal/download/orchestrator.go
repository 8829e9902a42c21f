package download

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/deckrepo/deckrepo-manager/internal/http"
	"github.com/deckrepo/deckrepo-manager/internal/install"
	"github.com/deckrepo/deckrepo-manager/internal/model"
	"golang.org/x/sync/errgroup"
)

// ProgressSink receives session notifications.
//
// Implementations belong to the call site (CLI, TUI, test harness); the
// orchestrator never knows what is listening. Sink methods are called
// from download goroutines and must be safe for concurrent use. A
// panicking sink is swallowed: a listener that disappeared mid-download
// must not take the session down with it.
type ProgressSink interface {
	// OnProgress reports download progress for an item as a whole
	// percentage. Only called when the response declared a total length.
	OnProgress(itemID string, percent int)

	// OnDone reports the terminal result for an item, successful or not.
	OnDone(itemID string, result install.Result)
}

// SinkFuncs adapts plain functions to the ProgressSink interface.
// Nil fields are skipped.
type SinkFuncs struct {
	Progress func(itemID string, percent int)
	Done     func(itemID string, result install.Result)
}

// OnProgress implements ProgressSink.
func (s SinkFuncs) OnProgress(itemID string, percent int) {
	if s.Progress != nil {
		s.Progress(itemID, percent)
	}
}

// OnDone implements ProgressSink.
func (s SinkFuncs) OnDone(itemID string, result install.Result) {
	if s.Done != nil {
		s.Done(itemID, result)
	}
}

// Orchestrator owns the set of concurrent download sessions and drives
// each through its state machine.
//
// Sessions are single-flight per item id: a second install request for
// an item with an active session is a no-op. The session map is the
// only shared bookkeeping; each session's temp files are written solely
// by that session's goroutine.
type Orchestrator struct {
	httpClient *http.Client
	installer  *install.Installer
	sink       ProgressSink
	limit      int
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewOrchestrator creates an Orchestrator committing into the given
// installer and notifying the given sink. maxConcurrent bounds batch
// installs; values below 1 are treated as 1.
func NewOrchestrator(installer *install.Installer, sink ProgressSink, maxConcurrent int) *Orchestrator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Orchestrator{
		httpClient: http.NewClient(),
		installer:  installer,
		sink:       sink,
		limit:      maxConcurrent,
		logger:     slog.Default().With("component", "download"),
		sessions:   make(map[string]*Session),
	}
}

// Start begins a download session for the item, returning false when a
// session for the same item id is already active.
//
// The session runs on its own goroutine; completion is reported through
// the sink. Use Wait to block until all started sessions finish.
func (o *Orchestrator) Start(ctx context.Context, item model.CatalogItem) bool {
	s, ok := o.addSession(item)
	if !ok {
		return false
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.runSession(ctx, s)
	}()
	return true
}

// InstallAll downloads and installs the given items with bounded
// concurrency, skipping any item that already has an active session.
// It returns once every item has reached a terminal state.
func (o *Orchestrator) InstallAll(ctx context.Context, items []model.CatalogItem) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit)

	for _, item := range items {
		item := item // capture
		g.Go(func() error {
			if s, ok := o.addSession(item); ok {
				o.runSession(ctx, s)
			}
			return nil
		})
	}

	return g.Wait()
}

// Wait blocks until all sessions started via Start have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Active reports whether a session is currently running for the item.
func (o *Orchestrator) Active(itemID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.sessions[itemID]
	return ok
}

// ActiveCount returns the number of in-flight sessions.
func (o *Orchestrator) ActiveCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}

// addSession inserts a session under the single-flight guard.
func (o *Orchestrator) addSession(item model.CatalogItem) (*Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.sessions[item.ID]; exists {
		return nil, false
	}
	s := newSession(item)
	o.sessions[item.ID] = s
	return s, true
}

// removeSession drops a terminal session from the map.
func (o *Orchestrator) removeSession(itemID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, itemID)
}

// runSession drives one session from Requested to a terminal state.
func (o *Orchestrator) runSession(ctx context.Context, s *Session) {
	s.setState(model.StateFetchingVideo)

	// Pre-seed the total via HEAD so progress stays meaningful when the
	// final response streams without a Content-Length. Best-effort: some
	// servers reject HEAD on download endpoints.
	if size, err := o.httpClient.GetFileSize(ctx, s.Item.VideoURL); err == nil && size > 0 {
		s.bytesTotal.Store(size)
	}

	err := o.httpClient.DownloadFile(ctx, s.Item.VideoURL, s.videoTempPath, func(written, total int64) {
		s.setState(model.StateWritingVideo)
		s.bytesReceived.Store(written)
		if total > 0 {
			s.bytesTotal.Store(total)
		}
		if pct := s.percent(); pct >= 0 {
			o.notifyProgress(s.Item.ID, pct)
		}
	})
	if err != nil {
		o.fail(s, fmt.Sprintf("Download error: %v", err))
		return
	}

	thumbPath := ""
	if s.Item.HasThumbnail() {
		s.setState(model.StateFetchingThumbnail)
		thumbPath = s.thumbTemp()
		err := o.httpClient.DownloadFile(ctx, s.Item.ThumbnailURL, thumbPath, func(written, total int64) {
			s.setState(model.StateWritingThumbnail)
		})
		if err != nil {
			// Thumbnail failure never fails the session.
			o.logger.Warn("thumbnail download failed", "item", s.Item.ID, "error", err)
			s.cleanupThumb()
			thumbPath = ""
		}
	}

	s.setState(model.StateCommitting)
	result := o.installer.Install(ctx, &s.Item, s.videoTempPath, thumbPath)

	s.setState(model.StateDone)
	o.removeSession(s.Item.ID)
	o.notifyDone(s.Item.ID, result)
}

// fail moves a session to Errored: temps removed, caller notified,
// session destroyed.
func (o *Orchestrator) fail(s *Session, message string) {
	s.cleanupTemps()
	s.setState(model.StateErrored)
	o.removeSession(s.Item.ID)
	o.notifyDone(s.Item.ID, install.Result{OK: false, Message: message})
}

// notifyProgress forwards progress to the sink, swallowing panics from
// listeners that no longer exist.
func (o *Orchestrator) notifyProgress(itemID string, percent int) {
	if o.sink == nil {
		return
	}
	defer func() { _ = recover() }()
	o.sink.OnProgress(itemID, percent)
}

// notifyDone forwards the terminal result to the sink, swallowing
// panics from listeners that no longer exist.
func (o *Orchestrator) notifyDone(itemID string, result install.Result) {
	if o.sink == nil {
		return
	}
	defer func() { _ = recover() }()
	o.sink.OnDone(itemID, result)
}
