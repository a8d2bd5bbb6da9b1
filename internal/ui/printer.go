package ui

import (
	"fmt"
	"io"

	"github.com/desertthunder/albumsync/internal/tasks"
)

// Printer writes progress updates as styled lines.
type Printer struct {
	w       io.Writer
	paint   Painter
	verbose bool
}

// NewPrinter returns a Printer writing to w. A nil painter falls back to [Plain].
func NewPrinter(w io.Writer, paint Painter, verbose bool) *Printer {
	if paint == nil {
		paint = Plain{}
	}
	return &Printer{w: w, paint: paint, verbose: verbose}
}

// Print renders a single update. Search and member-fetch updates are skipped unless verbose.
func (p *Printer) Print(u tasks.ProgressUpdate) {
	var line string
	switch u.Phase {
	case tasks.CheckServer, tasks.FetchMappings:
		line = p.paint.Help(u.Message)
	case tasks.SearchAssets, tasks.FetchMembers:
		if !p.verbose {
			return
		}
		line = p.paint.Help("  " + u.Message)
	case tasks.ExpandQueries, tasks.ResolveAlbum:
		line = p.paint.Title(u.Message)
	case tasks.ApplyPlan:
		line = p.paint.Warn("  " + u.Message)
	case tasks.AlbumDone:
		line = p.paint.OK(u.Message)
	case tasks.AlbumFailed:
		line = p.paint.Err(u.Message)
	default:
		line = u.Message
	}
	fmt.Fprintln(p.w, line)
}

// Drain prints updates until the channel is closed.
func (p *Printer) Drain(updates <-chan tasks.ProgressUpdate) {
	for u := range updates {
		p.Print(u)
	}
}

// Summary prints the closing line for a finished run.
func (p *Printer) Summary(report *tasks.RunReport) {
	if report == nil {
		return
	}
	failed := report.Failed()
	switch {
	case report.Err != nil && failed == 0:
		fmt.Fprintln(p.w, p.paint.Err(fmt.Sprintf("Sync aborted: %v", report.Err)))
	case failed > 0:
		fmt.Fprintln(p.w, p.paint.Err(fmt.Sprintf("%d of %d albums failed", failed, len(report.Albums))))
	default:
		msg := fmt.Sprintf("✓ %d albums in sync", len(report.Albums))
		if report.DryRun {
			msg += " (dry run, nothing changed)"
		}
		fmt.Fprintln(p.w, p.paint.OK(msg))
	}
}
