package download

import (
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/deckrepo/deckrepo-manager/internal/model"
	"github.com/google/uuid"
)

// Session tracks one in-flight asset download: the video, then the
// optional thumbnail, then the hand-off to the installer.
//
// A session is created when an install is requested and destroyed once
// it reaches a terminal state and the caller has been notified. At most
// one session exists per item id at any time.
type Session struct {
	// ID uniquely names this session and its temp files.
	ID string

	// Item is the catalog item being installed.
	Item model.CatalogItem

	state         atomic.Value // model.SessionState
	bytesReceived atomic.Int64
	bytesTotal    atomic.Int64

	videoTempPath string
	thumbTempPath string
}

func newSession(item model.CatalogItem) *Session {
	s := &Session{
		ID:   uuid.NewString(),
		Item: item,
	}
	s.videoTempPath = filepath.Join(os.TempDir(), "deckrepo-"+s.ID+".webm")
	s.state.Store(model.StateRequested)
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() model.SessionState {
	return s.state.Load().(model.SessionState)
}

func (s *Session) setState(st model.SessionState) {
	s.state.Store(st)
}

// Progress returns the received and total byte counts. Total is zero
// when the server did not declare a length.
func (s *Session) Progress() (received, total int64) {
	return s.bytesReceived.Load(), s.bytesTotal.Load()
}

// percent computes the floor percentage, or -1 when the total is unknown.
func (s *Session) percent() int {
	received, total := s.Progress()
	if total <= 0 {
		return -1
	}
	return int(received * 100 / total)
}

// thumbTemp lazily assigns the thumbnail temp path.
func (s *Session) thumbTemp() string {
	if s.thumbTempPath == "" {
		s.thumbTempPath = filepath.Join(os.TempDir(), "deckrepo-"+s.ID+".jpg")
	}
	return s.thumbTempPath
}

// cleanupThumb discards a partial thumbnail temp file.
func (s *Session) cleanupThumb() {
	if s.thumbTempPath == "" {
		return
	}
	_ = os.Remove(s.thumbTempPath)
	s.thumbTempPath = ""
}

// cleanupTemps removes any temp files this session created. Used on the
// error path; on success the installer consumes them instead.
func (s *Session) cleanupTemps() {
	for _, p := range []string{s.videoTempPath, s.thumbTempPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			continue
		}
	}
}
