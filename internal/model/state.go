package model

// SessionState tracks where an in-flight download session is in its
// lifecycle.
type SessionState string

const (
	// StateRequested means the session was created but no request issued yet.
	StateRequested SessionState = "Requested"

	// StateFetchingVideo means the video GET (including any redirects) is
	// in flight.
	StateFetchingVideo SessionState = "FetchingVideo"

	// StateWritingVideo means video bytes are streaming to the temp file.
	StateWritingVideo SessionState = "WritingVideo"

	// StateFetchingThumbnail means the optional thumbnail GET is in flight.
	StateFetchingThumbnail SessionState = "FetchingThumbnail"

	// StateWritingThumbnail means thumbnail bytes are streaming to disk.
	StateWritingThumbnail SessionState = "WritingThumbnail"

	// StateCommitting means downloaded files were handed to the installer.
	StateCommitting SessionState = "Committing"

	// StateDone means the install finished and the caller was notified.
	StateDone SessionState = "Done"

	// StateErrored means the session failed and its temp files were removed.
	StateErrored SessionState = "Errored"
)

// String returns the string representation of the state.
func (s SessionState) String() string {
	return string(s)
}

// IsTerminal reports whether the session has finished, successfully or not.
func (s SessionState) IsTerminal() bool {
	return s == StateDone || s == StateErrored
}
