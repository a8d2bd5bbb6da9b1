package models

import (
	"fmt"
	"time"
)

// SyncRun is the persisted record of one pass over the album definitions.
type SyncRun struct {
	id           string
	sequence     int
	startedAt    time.Time
	finishedAt   *time.Time
	dryRun       bool
	albumsTotal  int
	albumsFailed int
	errorMessage string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
	albums       []*AlbumSync
}

// NewSyncRun creates a run that started at startedAt.
func NewSyncRun(sequence int, startedAt time.Time, dryRun bool) *SyncRun {
	now := time.Now()
	return &SyncRun{
		sequence:  sequence,
		startedAt: startedAt,
		dryRun:    dryRun,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSyncRun rebuilds a run from stored columns.
func RestoreSyncRun(id string, sequence int, startedAt time.Time, finishedAt *time.Time, dryRun bool, albumsTotal, albumsFailed int, errorMessage string, createdAt, updatedAt time.Time, deletedAt *time.Time) *SyncRun {
	return &SyncRun{
		id:           id,
		sequence:     sequence,
		startedAt:    startedAt,
		finishedAt:   finishedAt,
		dryRun:       dryRun,
		albumsTotal:  albumsTotal,
		albumsFailed: albumsFailed,
		errorMessage: errorMessage,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		deletedAt:    deletedAt,
	}
}

func (r *SyncRun) ID() string             { return r.id }
func (r *SyncRun) Sequence() int          { return r.sequence }
func (r *SyncRun) StartedAt() time.Time   { return r.startedAt }
func (r *SyncRun) FinishedAt() *time.Time { return r.finishedAt }
func (r *SyncRun) DryRun() bool           { return r.dryRun }
func (r *SyncRun) AlbumsTotal() int       { return r.albumsTotal }
func (r *SyncRun) AlbumsFailed() int      { return r.albumsFailed }
func (r *SyncRun) ErrorMessage() string   { return r.errorMessage }
func (r *SyncRun) CreatedAt() time.Time   { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time   { return r.updatedAt }
func (r *SyncRun) DeletedAt() *time.Time  { return r.deletedAt }
func (r *SyncRun) Albums() []*AlbumSync   { return r.albums }

func (r *SyncRun) SetID(id string)               { r.id = id }
func (r *SyncRun) SetSequence(seq int)           { r.sequence = seq }
func (r *SyncRun) SetUpdatedAt(t time.Time)      { r.updatedAt = t }
func (r *SyncRun) SetErrorMessage(msg string)    { r.errorMessage = msg }
func (r *SyncRun) SetAlbums(albums []*AlbumSync) { r.albums = albums }

// Finish stamps the finish time and album counts.
func (r *SyncRun) Finish(at time.Time, total, failed int) {
	r.finishedAt = &at
	r.albumsTotal = total
	r.albumsFailed = failed
	r.updatedAt = time.Now()
}

// Duration is zero until the run is finished.
func (r *SyncRun) Duration() time.Duration {
	if r.finishedAt == nil {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

func (r *SyncRun) Validate() error {
	if r.startedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}
	if r.albumsFailed > r.albumsTotal {
		return fmt.Errorf("albums_failed (%d) exceeds albums_total (%d)", r.albumsFailed, r.albumsTotal)
	}
	if r.finishedAt != nil && r.finishedAt.Before(r.startedAt) {
		return fmt.Errorf("finished_at is before started_at")
	}
	return nil
}

// AlbumSync is the persisted outcome of syncing one album within a run.
type AlbumSync struct {
	id           string
	runID        string
	albumName    string
	albumID      string
	created      bool
	queries      int
	desired      int
	added        int
	removed      int
	errorMessage string
	createdAt    time.Time
}

// NewAlbumSync records the counts produced for albumName.
func NewAlbumSync(albumName, albumID string, created bool, queries, desired, added, removed int, errorMessage string) *AlbumSync {
	return &AlbumSync{
		albumName:    albumName,
		albumID:      albumID,
		created:      created,
		queries:      queries,
		desired:      desired,
		added:        added,
		removed:      removed,
		errorMessage: errorMessage,
		createdAt:    time.Now(),
	}
}

// RestoreAlbumSync rebuilds an album outcome from stored columns.
func RestoreAlbumSync(id, runID, albumName, albumID string, created bool, queries, desired, added, removed int, errorMessage string, createdAt time.Time) *AlbumSync {
	a := NewAlbumSync(albumName, albumID, created, queries, desired, added, removed, errorMessage)
	a.id = id
	a.runID = runID
	a.createdAt = createdAt
	return a
}

func (a *AlbumSync) ID() string           { return a.id }
func (a *AlbumSync) RunID() string        { return a.runID }
func (a *AlbumSync) AlbumName() string    { return a.albumName }
func (a *AlbumSync) AlbumID() string      { return a.albumID }
func (a *AlbumSync) Created() bool        { return a.created }
func (a *AlbumSync) Queries() int         { return a.queries }
func (a *AlbumSync) Desired() int         { return a.desired }
func (a *AlbumSync) Added() int           { return a.added }
func (a *AlbumSync) Removed() int         { return a.removed }
func (a *AlbumSync) ErrorMessage() string { return a.errorMessage }
func (a *AlbumSync) Failed() bool         { return a.errorMessage != "" }
func (a *AlbumSync) CreatedAt() time.Time { return a.createdAt }
func (a *AlbumSync) UpdatedAt() time.Time { return a.createdAt }

func (a *AlbumSync) SetID(id string)       { a.id = id }
func (a *AlbumSync) SetRunID(runID string) { a.runID = runID }

func (a *AlbumSync) Validate() error {
	if a.runID == "" {
		return fmt.Errorf("run_id is required")
	}
	if a.albumName == "" {
		return fmt.Errorf("album_name is required")
	}
	if a.queries < 0 || a.desired < 0 || a.added < 0 || a.removed < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	return nil
}
