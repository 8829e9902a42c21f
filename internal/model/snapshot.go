package model

// SnapshotSource tells where a catalog snapshot was obtained from.
type SnapshotSource string

const (
	// SourceNetwork means the snapshot came from a live catalog request.
	SourceNetwork SnapshotSource = "network"

	// SourceCache means the snapshot was loaded from the on-disk cache.
	SourceCache SnapshotSource = "cache"

	// SourceNone marks an empty snapshot produced without usable data
	// from either source, such as a discarded corrupt cache with no
	// network attempt.
	SourceNone SnapshotSource = ""
)

// CatalogSnapshot is the full ordered item set from one catalog fetch.
//
// A snapshot is entirely from the network response or entirely from the
// cache file, never a merge of the two.
type CatalogSnapshot struct {
	Items  []CatalogItem
	Source SnapshotSource
}

// Len returns the number of items in the snapshot.
func (s *CatalogSnapshot) Len() int {
	return len(s.Items)
}

// FindByID returns the item with the given id, or nil if absent.
func (s *CatalogSnapshot) FindByID(id string) *CatalogItem {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i]
		}
	}
	return nil
}

// FilterItems returns the items of the given kind whose title matches the
// search query. Order is preserved.
func FilterItems(items []CatalogItem, kind VideoKind, query string) []CatalogItem {
	var out []CatalogItem
	for i := range items {
		if items[i].Kind != kind {
			continue
		}
		if !items[i].MatchesSearch(query) {
			continue
		}
		out = append(out, items[i])
	}
	return out
}
