// Package download orchestrates concurrent asset downloads and their
// hand-off to the installer.
//
// # Session State Machine
//
// Each install request becomes one Session:
//
//	Requested → FetchingVideo → WritingVideo →
//	FetchingThumbnail? → WritingThumbnail? → Committing → Done
//
// with Errored reachable from any non-terminal state. Redirects are
// followed inside the HTTP client without resetting progress, up to a
// fixed hop cap. A thumbnail failure is non-fatal: the partial temp
// file is discarded and the session commits without one.
//
// # Single-Flight Guard
//
// At most one session exists per item id. A second install request for
// an active item is a no-op:
//
//	o := download.NewOrchestrator(installer, sink, 2)
//	o.Start(ctx, item) // true
//	o.Start(ctx, item) // false while the first is running
//	o.Wait()
//
// # Notifications
//
// The orchestrator depends only on the ProgressSink interface; whatever
// the call site is (CLI, TUI, tests) implements it. Sink panics are
// swallowed so a vanished listener cannot crash a session.
package download
