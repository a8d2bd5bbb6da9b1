// package scheduler runs a sync job immediately and then on a fixed interval.
//
// Job errors in scheduled mode are logged and the next tick tries again, so a
// transient outage heals on its own. Runs never overlap: the job is only ever
// called from the goroutine executing [Scheduler.Run].
package scheduler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/desertthunder/albumsync/internal/shared"
)

const defaultDebounce = 500 * time.Millisecond

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler repeats a [Job].
type Scheduler struct {
	interval time.Duration
	job      Job
	logger   *log.Logger
	trigger  chan struct{}
	debounce time.Duration
}

// New creates a scheduler. An interval of zero or less runs the job once.
func New(interval time.Duration, job Job, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Scheduler{
		interval: interval,
		job:      job,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		debounce: defaultDebounce,
	}
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Run executes the job now and, in scheduled mode, after every interval or
// [Scheduler.Trigger] until ctx is cancelled.
//
// In run-once mode the job's error is returned. In scheduled mode Run returns
// nil once ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return s.job(ctx)
	}

	s.logger.Info("scheduling sync", "interval", s.interval)
	s.runJob(ctx, "startup")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.runJob(ctx, "interval")
		case <-s.trigger:
			s.runJob(ctx, "trigger")
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, reason string) {
	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled sync failed", "reason", reason, "err", err)
		return
	}
	s.logger.Debug("scheduled sync finished", "reason", reason, "duration", time.Since(start).Round(time.Millisecond))
}

// Trigger requests an extra run. Requests made while one is pending are coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Watch triggers a run whenever the file at path is written, created or
// replaced. Bursts of events within the debounce window cause a single run.
//
// The parent directory is watched so editors that save by renaming are seen.
// Watching stops when ctx is cancelled.
func (s *Scheduler) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	s.logger.Info("watching album definitions", "path", abs)
	go s.watchLoop(ctx, watcher, abs)
	return nil
}

func (s *Scheduler) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				s.logger.Debug("album definitions changed", "op", event.Op.String())
				pending = time.After(s.debounce)
			}

		case <-pending:
			pending = nil
			s.logger.Info("album definitions changed, scheduling sync")
			s.Trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", "err", err)
		}
	}
}
