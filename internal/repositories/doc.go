// Package repositories implements SQLite persistence for sync history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Sync runs support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [SyncRunRepository] : One row per sync pass with album totals and the error that ended it
//   - [AlbumSyncRepository] : Per-album outcome of a pass (queries, desired, added, removed)
//   - [HistoryRecorder] : Adapts both repositories to the engine's run recorder
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
