// Package install commits downloaded video assets into the local
// install root and maintains the metadata sidecar store.
//
// # Install Classes
//
// Boot videos are persistent multi-file installs keyed by slug:
//
//	{root}/{slug}.webm
//	{root}/.manager/{slug}.json
//	{root}/.manager/{slug}.jpg
//
// Suspend videos share a single destination slot. The previous occupant
// is renamed to a backup before the new file is copied in:
//
//	{root}/deck-suspend-animation.webm
//	{root}/deck-suspend-animation.webm.bak
//	{root}/.manager/suspend.json
//
// # Failure Model
//
// Install operations never return an error; I/O failures become a
// Result with OK=false and a descriptive message. Sidecar writes are
// best-effort and only logged. Delete returns ErrNotFound for a missing
// target and ignores sidecar removal failures.
package install
