package model

import "strings"

// VideoKind identifies which install class a catalog item belongs to.
//
// Boot videos are persistent multi-file installs: each item keeps its own
// slug-derived filename inside the install root. Suspend videos share a
// single destination slot and replace each other on install.
type VideoKind string

const (
	// KindBoot is a boot animation video ({slug}.webm).
	KindBoot VideoKind = "boot_video"

	// KindSuspend is a suspend animation video (single shared slot).
	KindSuspend VideoKind = "suspend_video"
)

// String returns the string representation of the kind.
func (k VideoKind) String() string {
	return string(k)
}

// CatalogItem is one remote video descriptor from the repo catalog.
//
// Items are immutable once fetched; a new catalog fetch replaces the
// full set atomically (see CatalogSnapshot).
type CatalogItem struct {
	// ID is the opaque stable identifier assigned by the remote service.
	ID string

	// Slug is a filesystem-safe name, unique per boot item. It forms the
	// destination filename for boot-class installs.
	Slug string

	// Kind selects the install class (boot vs suspend).
	Kind VideoKind

	// Title is the display title of the video.
	Title string

	// Author is the submitter's display name. Empty if unknown.
	Author string

	// Description is the free-form post body, may be empty.
	Description string

	// Downloads is the remote download counter.
	Downloads int

	// Likes is the remote like counter.
	Likes int

	// VideoURL is where the primary asset is fetched from. The URL may
	// answer with one or more redirects before the actual bytes.
	VideoURL string

	// ThumbnailURL points at a preview image. Empty if the post has none.
	ThumbnailURL string
}

// HasThumbnail reports whether the item carries a preview image URL.
func (it *CatalogItem) HasThumbnail() bool {
	return it.ThumbnailURL != ""
}

// DisplayAuthor returns the author name or a placeholder when unknown.
func (it *CatalogItem) DisplayAuthor() string {
	if it.Author == "" {
		return "Unknown"
	}
	return it.Author
}

// MatchesSearch reports whether the item's title contains the query,
// case-insensitively. An empty query matches everything.
func (it *CatalogItem) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), strings.ToLower(query))
}
