// Package tasks orchestrates smart album synchronisation with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines two operations:
//
//  1. [SyncEngine.SyncAlbum] : Reconcile one album
//     - Expands the album's filter expression into atomic searches
//     - Runs every search and unions the matched asset IDs
//     - Finds the album by exact name, creating it when missing
//     - Removes extra members, then adds missing ones
//
//  2. [SyncEngine.RunOnce] : Reconcile every album in a definitions file
//     - Gates on the server version
//     - Fetches people and tag mappings once for the whole pass
//     - Syncs albums in order, aborting on the first failure unless
//     [Options.ContinueOnError] is set
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, album, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # History
//
// The optional [RunRecorder] receives a [models.SyncRun] after every pass.
// Recording errors are logged and never change the pass result.
package tasks
