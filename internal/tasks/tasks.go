// package tasks implements smart album synchronisation against a photo service.
//
// The core abstraction is SyncEngine, which expands album definitions into searches and reconciles album membership.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/query"
	"github.com/desertthunder/albumsync/internal/reconcile"
	"github.com/desertthunder/albumsync/internal/services"
	"github.com/desertthunder/albumsync/internal/shared"
)

// DefaultMinVersion is the oldest server release the search payload is known to work with.
const DefaultMinVersion = "1.100.0"

// Options controls a sync pass.
type Options struct {
	DryRun          bool   // Compute plans without creating albums or changing membership
	ContinueOnError bool   // Keep going after an album fails instead of aborting the batch
	MinVersion      string // Oldest accepted server version; empty skips the check
}

// Mappings are the name lookups shared by every album in a pass.
type Mappings struct {
	People models.NameMapping
	Tags   models.NameMapping
}

// AlbumResult is the outcome of syncing one album.
type AlbumResult struct {
	Name    string
	AlbumID string                    // Empty when a dry run would have created the album
	Created bool                      // The album did not exist before this pass
	Queries []models.AtomicQuery      // Expanded searches, in execution order
	Desired int                       // Unique assets matched by the definition
	Current int                       // Members before reconciliation
	Plan    models.ReconciliationPlan // Changes computed (and applied unless dry run)
	Err     error
}

// Failed reports whether the album could not be synced.
func (r *AlbumResult) Failed() bool { return r.Err != nil }

// RunReport summarises a pass over all album definitions.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Server     models.ServerVersion
	Albums     []*AlbumResult
	Err        error // Error that ended the pass early, if any
}

// Failed counts the albums that could not be synced.
func (r *RunReport) Failed() int {
	n := 0
	for _, a := range r.Albums {
		if a.Failed() {
			n++
		}
	}
	return n
}

// Duration is the wall time of the pass.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunRecorder persists the outcome of a pass.
type RunRecorder interface {
	RecordRun(ctx context.Context, run *models.SyncRun) error
}

// SyncEngine defines operations for keeping smart albums in sync.
type SyncEngine interface {
	// SyncAlbum expands one definition, searches every branch and reconciles the album to the union of results.
	SyncAlbum(ctx context.Context, cfg models.FilterConfig, mappings Mappings, opts Options, progress chan<- ProgressUpdate) (*AlbumResult, error)

	// RunOnce checks the server, fetches name mappings once and syncs every definition in order.
	RunOnce(ctx context.Context, configs []models.FilterConfig, opts Options, progress chan<- ProgressUpdate) (*RunReport, error)
}

// AlbumEngine implements SyncEngine on top of a [services.PhotoService].
type AlbumEngine struct {
	photos   services.PhotoService
	logger   *log.Logger
	recorder RunRecorder
	now      func() time.Time
}

// NewAlbumEngine creates an engine. logger and recorder may be nil.
func NewAlbumEngine(photos services.PhotoService, logger *log.Logger, recorder RunRecorder) *AlbumEngine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &AlbumEngine{
		photos:   photos,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *AlbumEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// CheckVersion fetches the server version and rejects releases older than minVersion.
func (e *AlbumEngine) CheckVersion(ctx context.Context, minVersion string) (models.ServerVersion, error) {
	if e.photos == nil {
		return models.ServerVersion{}, fmt.Errorf("%w: photo service not initialized", shared.ErrServiceUnavailable)
	}

	v, err := e.photos.ServerVersion(ctx)
	if err != nil {
		return models.ServerVersion{}, fmt.Errorf("failed to fetch server version: %w", err)
	}
	if err := services.CheckVersion(v, minVersion); err != nil {
		return v, err
	}
	return v, nil
}

// FetchMappings builds the people and tag lookups from the server's current listings.
func (e *AlbumEngine) FetchMappings(ctx context.Context, progress chan<- ProgressUpdate) (Mappings, error) {
	if e.photos == nil {
		return Mappings{}, fmt.Errorf("%w: photo service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchMappingsUpdate(1, 2, "people"))
	people, err := e.photos.ListPeople(ctx)
	if err != nil {
		return Mappings{}, fmt.Errorf("failed to list people: %w", err)
	}

	e.sendProgress(progress, fetchMappingsUpdate(2, 2, "tags"))
	tags, err := e.photos.ListTags(ctx)
	if err != nil {
		return Mappings{}, fmt.Errorf("failed to list tags: %w", err)
	}

	m := Mappings{People: models.PeopleMapping(people), Tags: models.TagMapping(tags)}
	e.logger.Debug("fetched name mappings", "people", len(m.People), "tags", len(m.Tags))
	return m, nil
}

// SyncAlbum brings one album's membership in line with its definition.
//
// Removals are issued before additions, and a side of the plan that is empty
// issues no call. With opts.DryRun nothing on the server is changed.
func (e *AlbumEngine) SyncAlbum(ctx context.Context, cfg models.FilterConfig, mappings Mappings, opts Options, progress chan<- ProgressUpdate) (*AlbumResult, error) {
	res := &AlbumResult{Name: cfg.Name}
	if err := e.syncAlbum(ctx, cfg, mappings, opts, progress, res); err != nil {
		res.Err = fmt.Errorf("album %q: %w", cfg.Name, err)
		return res, res.Err
	}
	return res, nil
}

func (e *AlbumEngine) syncAlbum(ctx context.Context, cfg models.FilterConfig, mappings Mappings, opts Options, progress chan<- ProgressUpdate, res *AlbumResult) error {
	if e.photos == nil {
		return fmt.Errorf("%w: photo service not initialized", shared.ErrServiceUnavailable)
	}
	logger := shared.WithLogger(e.logger, "album", cfg.Name)

	expansion, err := query.Expand(cfg.Query, mappings.People, mappings.Tags)
	if err != nil {
		return err
	}
	res.Queries = expansion.Queries()
	e.sendProgress(progress, expandQueriesUpdate(cfg.Name, len(res.Queries)))
	logger.Debug("expanded album query", "queries", len(res.Queries))

	results := make([][]models.Asset, 0, len(res.Queries))
	for i, q := range res.Queries {
		e.sendProgress(progress, searchAssetsUpdate(cfg.Name, i+1, len(res.Queries), q))

		assets, err := e.photos.Search(ctx, q)
		if err != nil {
			return fmt.Errorf("search %s: %w", q, err)
		}
		results = append(results, assets)
		logger.Debug("search complete", "query", q.String(), "matched", len(assets))
	}
	desired := reconcile.Desired(results...)
	res.Desired = desired.Len()

	album, err := e.findAlbum(ctx, cfg.Name)
	if err != nil {
		return err
	}

	current := models.NewAssetIDSet()
	switch {
	case album != nil:
		res.AlbumID = album.ID
		e.sendProgress(progress, resolveAlbumUpdate(cfg.Name, false))
	case opts.DryRun:
		res.Created = true
		e.sendProgress(progress, resolveAlbumUpdate(cfg.Name, true))
	default:
		res.Created = true
		e.sendProgress(progress, resolveAlbumUpdate(cfg.Name, true))
		created, err := e.photos.CreateAlbum(ctx, cfg.Name)
		if err != nil {
			return fmt.Errorf("failed to create album: %w", err)
		}
		res.AlbumID = created.ID
		logger.Info("created album", "id", created.ID)
	}

	if res.AlbumID != "" {
		e.sendProgress(progress, fetchMembersUpdate(cfg.Name))
		full, err := e.photos.GetAlbum(ctx, res.AlbumID, true)
		if err != nil {
			return fmt.Errorf("failed to fetch album members: %w", err)
		}
		current = models.AssetIDSetOf(full.Assets)
	}
	res.Current = current.Len()

	res.Plan = reconcile.Compute(desired, current)
	logger.Info("reconciled album",
		"desired", res.Desired, "current", res.Current,
		"add", res.Plan.ToAdd.Len(), "remove", res.Plan.ToRemove.Len(), "dry_run", opts.DryRun)

	if opts.DryRun {
		return nil
	}

	if res.Plan.ToRemove.Len() > 0 {
		e.sendProgress(progress, applyPlanUpdate(cfg.Name, 1, 2, "removing", res.Plan.ToRemove.Len()))
		if err := e.photos.RemoveAssets(ctx, res.AlbumID, res.Plan.ToRemove.Sorted()); err != nil {
			return fmt.Errorf("failed to remove assets: %w", err)
		}
	}
	if res.Plan.ToAdd.Len() > 0 {
		e.sendProgress(progress, applyPlanUpdate(cfg.Name, 2, 2, "adding", res.Plan.ToAdd.Len()))
		if err := e.photos.AddAssets(ctx, res.AlbumID, res.Plan.ToAdd.Sorted()); err != nil {
			return fmt.Errorf("failed to add assets: %w", err)
		}
	}
	return nil
}

// findAlbum returns the first album named exactly name, or nil.
func (e *AlbumEngine) findAlbum(ctx context.Context, name string) (*models.Album, error) {
	albums, err := e.photos.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	for i := range albums {
		if albums[i].Name == name {
			return &albums[i], nil
		}
	}
	return nil, nil
}

// RunOnce performs one full pass over configs.
//
// By default the first failing album aborts the pass and the returned error
// wraps [shared.ErrBatchAborted]. With opts.ContinueOnError every album is
// attempted and the failures are joined. The report is returned in both cases.
func (e *AlbumEngine) RunOnce(ctx context.Context, configs []models.FilterConfig, opts Options, progress chan<- ProgressUpdate) (*RunReport, error) {
	report := &RunReport{StartedAt: e.now(), DryRun: opts.DryRun}
	err := e.runOnce(ctx, configs, opts, progress, report)
	report.FinishedAt = e.now()
	report.Err = err

	e.logger.Info("sync pass finished",
		"albums", len(report.Albums), "failed", report.Failed(),
		"duration", report.Duration().Round(time.Millisecond), "dry_run", opts.DryRun)
	e.record(ctx, report)

	return report, err
}

func (e *AlbumEngine) runOnce(ctx context.Context, configs []models.FilterConfig, opts Options, progress chan<- ProgressUpdate, report *RunReport) error {
	e.sendProgress(progress, checkServerUpdate(nil))
	v, err := e.CheckVersion(ctx, opts.MinVersion)
	if err != nil {
		return err
	}
	report.Server = v
	e.sendProgress(progress, checkServerUpdate(&v))

	mappings, err := e.FetchMappings(ctx, progress)
	if err != nil {
		return err
	}

	var errs []error
	total := len(configs)
	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := e.SyncAlbum(ctx, cfg, mappings, opts, progress)
		report.Albums = append(report.Albums, res)

		if err != nil {
			e.sendProgress(progress, albumFailedUpdate(i+1, total, cfg.Name, err))
			e.logger.Error("album sync failed", "album", cfg.Name, "err", err)
			if !opts.ContinueOnError {
				return fmt.Errorf("%w after %d of %d albums: %w", shared.ErrBatchAborted, i+1, total, err)
			}
			errs = append(errs, err)
			continue
		}
		e.sendProgress(progress, albumDoneUpdate(i+1, total, res))
	}

	return errors.Join(errs...)
}

func (e *AlbumEngine) record(ctx context.Context, report *RunReport) {
	if e.recorder == nil {
		return
	}

	run := models.NewSyncRun(0, report.StartedAt, report.DryRun)
	run.Finish(report.FinishedAt, len(report.Albums), report.Failed())
	if report.Err != nil {
		run.SetErrorMessage(report.Err.Error())
	}

	albums := make([]*models.AlbumSync, 0, len(report.Albums))
	for _, a := range report.Albums {
		var msg string
		if a.Err != nil {
			msg = a.Err.Error()
		}
		albums = append(albums, models.NewAlbumSync(a.Name, a.AlbumID, a.Created, len(a.Queries), a.Desired, a.Plan.ToAdd.Len(), a.Plan.ToRemove.Len(), msg))
	}
	run.SetAlbums(albums)

	// a cancelled pass should still be recorded
	if err := e.recorder.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		e.logger.Warn("failed to record sync run", "err", err)
	}
}
