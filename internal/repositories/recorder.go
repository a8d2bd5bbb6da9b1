package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/albumsync/internal/models"
)

// HistoryRecorder persists sync runs and their album outcomes.
type HistoryRecorder struct {
	Runs   *SyncRunRepository
	Albums *AlbumSyncRepository
}

// NewHistoryRecorder creates a recorder backed by db.
func NewHistoryRecorder(db *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{Runs: NewSyncRunRepository(db), Albums: NewAlbumSyncRepository(db)}
}

// RecordRun stores run and every album attached to it.
func (h *HistoryRecorder) RecordRun(ctx context.Context, run *models.SyncRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := h.Runs.Create(run); err != nil {
		return err
	}

	for _, a := range run.Albums() {
		a.SetRunID(run.ID())
		if err := h.Albums.Create(a); err != nil {
			return fmt.Errorf("run #%d: %w", run.Sequence(), err)
		}
	}
	return nil
}

// Load returns a run together with its album outcomes.
func (h *HistoryRecorder) Load(id string) (*models.SyncRun, error) {
	run, err := h.Runs.Get(id)
	if err != nil {
		return nil, err
	}

	albums, err := h.Albums.ListByRun(run.ID())
	if err != nil {
		return nil, err
	}
	run.SetAlbums(albums)
	return run, nil
}
