// Package model defines the core data structures shared across
// deckrepo-manager.
//
// # CatalogItem
//
// CatalogItem is one remote video descriptor. Items arrive in a
// CatalogSnapshot, which is tagged with its source (network or cache)
// and is never a merge of the two:
//
//	snap, err := client.FetchPosts(ctx, false)
//	boot := model.FilterItems(snap.Items, model.KindBoot, "space")
//
// # InstalledEntry
//
// InstalledEntry is the derived view of one file in the install root,
// produced by the installer's directory scan. Sidecar metadata is
// attached when present.
//
// # SessionState
//
// SessionState enumerates the download session lifecycle from Requested
// through Done, with Errored reachable from any non-terminal state.
package model
