package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

// AlbumSyncRepository stores the per-album outcomes of a run.
type AlbumSyncRepository struct {
	db *sql.DB
}

// NewAlbumSyncRepository creates a new AlbumSyncRepository with the given database connection
func NewAlbumSyncRepository(db *sql.DB) *AlbumSyncRepository {
	return &AlbumSyncRepository{db: db}
}

// Create inserts an album outcome with a generated ID. The run ID must already be set.
func (r *AlbumSyncRepository) Create(a *models.AlbumSync) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO album_syncs (id, run_id, album_name, album_id, created, queries, desired, added, removed, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		a.RunID(),
		a.AlbumName(),
		nullString(a.AlbumID()),
		a.Created(),
		a.Queries(),
		a.Desired(),
		a.Added(),
		a.Removed(),
		nullString(a.ErrorMessage()),
		a.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert album sync: %w", err)
	}

	a.SetID(id)
	return nil
}

// ListByRun returns the outcomes of a run in the order they were recorded
func (r *AlbumSyncRepository) ListByRun(runID string) ([]*models.AlbumSync, error) {
	query := `
		SELECT id, run_id, album_name, album_id, created, queries, desired, added, removed, error_message, created_at
		FROM album_syncs
		WHERE run_id = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query album syncs: %w", err)
	}
	defer rows.Close()

	var out []*models.AlbumSync
	for rows.Next() {
		var (
			id, rid, albumName              string
			albumID, errorMessage           sql.NullString
			created                         bool
			queries, desired, added, remove int
			createdAt                       time.Time
		)
		if err := rows.Scan(&id, &rid, &albumName, &albumID, &created, &queries, &desired, &added, &remove, &errorMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan album sync: %w", err)
		}
		out = append(out, models.RestoreAlbumSync(id, rid, albumName, albumID.String, created, queries, desired, added, remove, errorMessage.String, createdAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}
