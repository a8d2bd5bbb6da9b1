package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/albumsync/internal/albums"
	"github.com/desertthunder/albumsync/internal/formatter"
	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/query"
	"github.com/desertthunder/albumsync/internal/scheduler"
	"github.com/desertthunder/albumsync/internal/server"
	"github.com/desertthunder/albumsync/internal/shared"
	"github.com/desertthunder/albumsync/internal/tasks"
	"github.com/desertthunder/albumsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sync reconciles every defined album once, or repeatedly when an interval is set.
//
// Definitions are re-read before every pass so edits apply without a restart.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("albums")
	configs, err := albums.Load(path)
	if err != nil {
		return err
	}

	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	recorder, closeHistory := r.historyRecorder(!cmd.Bool("no-history"))
	defer closeHistory()

	engine := tasks.NewAlbumEngine(photos, r.logger, recorder)
	opts := tasks.Options{
		DryRun:          cmd.Bool("dry-run"),
		ContinueOnError: cmd.Bool("continue-on-error"),
		MinVersion:      r.config.Immich.MinVersion,
	}
	printer := ui.NewPrinter(r.output, r.paint, cmd.Bool("verbose"))
	reportPath := cmd.String("report")
	status := server.NewStatusHandler()

	r.logger.Info("starting sync", "albums", len(configs), "file", path, "dry_run", opts.DryRun)

	job := func(ctx context.Context) error {
		configs, err := albums.Load(path)
		if err != nil {
			return err
		}

		report, err := r.runPass(ctx, engine, configs, opts, printer)
		status.Record(report, err)
		if reportPath != "" && report != nil {
			if werr := formatter.WriteReport(report, reportPath); werr != nil {
				r.logger.Warn("failed to write report", "path", reportPath, "error", werr)
			}
		}
		return err
	}

	interval := time.Duration(cmd.Int("interval")) * time.Minute
	sched := scheduler.New(interval, job, r.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Bool("watch") {
		if interval <= 0 {
			r.logger.Warn("--watch has no effect without --interval")
		} else if err := sched.Watch(ctx, path); err != nil {
			return err
		}
	}

	if addr := cmd.String("status-addr"); addr != "" {
		if interval <= 0 {
			r.logger.Warn("--status-addr has no effect without --interval")
		} else {
			router := server.NewStatusRouter(status, server.RequestLogger(r.logger), server.Recoverer(r.logger))
			go func() {
				if err := server.Serve(ctx, addr, router, r.logger); err != nil {
					r.logger.Error("status server failed", "error", err)
				}
			}()
		}
	}

	return sched.Run(ctx)
}

// runPass runs one batch while a goroutine prints progress.
func (r *Runner) runPass(ctx context.Context, engine *tasks.AlbumEngine, configs []models.FilterConfig, opts tasks.Options, printer *ui.Printer) (*tasks.RunReport, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		printer.Drain(progress)
		close(done)
	}()

	report, err := engine.RunOnce(ctx, configs, opts, progress)
	close(progress)
	<-done

	printer.Summary(report)
	return report, err
}

// Plan computes every album's changes without applying them and prints the report.
func (r *Runner) Plan(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	configs, err := albums.Load(cmd.String("albums"))
	if err != nil {
		return err
	}

	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	engine := tasks.NewAlbumEngine(photos, r.logger, nil)
	report, runErr := engine.RunOnce(ctx, configs, tasks.Options{
		DryRun:          true,
		ContinueOnError: cmd.Bool("continue-on-error"),
		MinVersion:      r.config.Immich.MinVersion,
	}, nil)

	data, err := formatter.Report(report, format)
	if err != nil {
		return err
	}
	if err := r.writeBytes(data); err != nil {
		return err
	}
	return runErr
}

// Queries prints the atomic searches each album expands to, resolving names against the server.
func (r *Runner) Queries(ctx context.Context, cmd *cli.Command) error {
	configs, err := albums.Load(cmd.String("albums"))
	if err != nil {
		return err
	}

	if name := cmd.String("album"); name != "" {
		configs = filterByName(configs, name)
		if len(configs) == 0 {
			return fmt.Errorf("%w: no album named %q", shared.ErrInvalidArgument, name)
		}
	}

	photos, err := r.photoService(cmd)
	if err != nil {
		return err
	}

	mappings, err := tasks.NewAlbumEngine(photos, r.logger, nil).FetchMappings(ctx, nil)
	if err != nil {
		return err
	}

	for i, cfg := range configs {
		expansion, err := query.Expand(cfg.Query, mappings.People, mappings.Tags)
		if err != nil {
			return fmt.Errorf("album %q: %w", cfg.Name, err)
		}
		if i > 0 {
			r.writePlain("\n")
		}
		if err := r.writeBytes(formatter.QueriesToText(cfg.Name, expansion.Queries())); err != nil {
			return err
		}
	}
	return nil
}

func filterByName(configs []models.FilterConfig, name string) []models.FilterConfig {
	for _, cfg := range configs {
		if cfg.Name == name {
			return []models.FilterConfig{cfg}
		}
	}
	return nil
}

// Validate loads the album definitions and reports schema problems without any network access.
func (r *Runner) Validate(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("albums")
	configs, err := albums.Load(path)
	if err != nil {
		r.writePlain("%s\n", r.paint.Err("✗ "+path+" is invalid"))
		return err
	}

	r.writePlain("%s\n", r.paint.OK(fmt.Sprintf("✓ %d album definitions in %s are valid", len(configs), path)))
	for _, cfg := range configs {
		r.writePlain("  - %s\n", cfg.Name)
	}
	return nil
}
