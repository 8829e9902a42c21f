package model

// SuspendFileName is the single destination slot for suspend-class
// installs inside the install root.
const SuspendFileName = "deck-suspend-animation.webm"

// SuspendSlugKey is the fixed sidecar key used for the suspend slot,
// regardless of the source item's own slug.
const SuspendSlugKey = "suspend"

// VideoExt is the file extension of installed video assets.
const VideoExt = ".webm"

// InstalledEntry describes one video found in the install root.
//
// Entries are a derived view computed by scanning the directory; they are
// never persisted on their own.
type InstalledEntry struct {
	// Filename is the base name of the installed asset.
	Filename string

	// Path is the absolute path of the installed asset.
	Path string

	// Kind classifies the entry: the suspend slot filename maps to
	// KindSuspend, everything else is a boot video.
	Kind VideoKind

	// SizeBytes is the on-disk size of the asset.
	SizeBytes int64

	// Meta holds the sidecar descriptor, nil when the sidecar is missing
	// or unreadable.
	Meta *CatalogItem

	// ThumbnailPath is the local sidecar thumbnail, empty if absent.
	ThumbnailPath string
}

// SizeMB returns the asset size in megabytes.
func (e *InstalledEntry) SizeMB() float64 {
	return float64(e.SizeBytes) / (1024 * 1024)
}

// DisplayTitle returns the sidecar title, falling back to the filename.
func (e *InstalledEntry) DisplayTitle() string {
	if e.Meta != nil && e.Meta.Title != "" {
		return e.Meta.Title
	}
	return e.Filename
}
