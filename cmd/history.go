package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/albumsync/internal/formatter"
	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/repositories"
	"github.com/desertthunder/albumsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists recent sync runs.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.database()
	if err != nil {
		return err
	}
	defer closeDB()

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if cmd.Bool("failed") {
		criteria["failed"] = true
	}

	runs, err := repositories.NewSyncRunRepository(db).List(criteria)
	if err != nil {
		return err
	}
	return r.writeBytes(formatter.HistoryToText(runs))
}

// HistoryShow prints one run and its per-album outcomes.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.database()
	if err != nil {
		return err
	}
	defer closeDB()

	recorder := repositories.NewHistoryRecorder(db)
	run, err := runBySequence(recorder, cmd.StringArg("sequence"))
	if err != nil {
		return err
	}

	run, err = recorder.Load(run.ID())
	if err != nil {
		return err
	}
	return r.writeBytes(formatter.RunToText(run))
}

// HistoryDelete soft-deletes a run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	db, closeDB, err := r.database()
	if err != nil {
		return err
	}
	defer closeDB()

	recorder := repositories.NewHistoryRecorder(db)
	run, err := runBySequence(recorder, cmd.StringArg("sequence"))
	if err != nil {
		return err
	}

	if err := recorder.Runs.Delete(run.ID()); err != nil {
		return err
	}
	r.logger.Info("deleted sync run", "sequence", run.Sequence())
	return r.writePlain("Deleted run #%d\n", run.Sequence())
}

func runBySequence(recorder *repositories.HistoryRecorder, arg string) (*models.SyncRun, error) {
	if arg == "" {
		return nil, fmt.Errorf("%w: run sequence number", shared.ErrMissingArgument)
	}
	seq, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: sequence %q is not a number", shared.ErrInvalidArgument, arg)
	}
	return recorder.Runs.GetBySequence(seq)
}
