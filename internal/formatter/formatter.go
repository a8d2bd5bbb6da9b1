// package formatter renders sync reports, expanded queries and history to CSV, Markdown, JSON and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/tasks"
)

// Format is an output encoding for reports.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, markdown, csv or json)", s)
	}
}

func status(a *tasks.AlbumResult) string {
	switch {
	case a.Failed():
		return "failed"
	case a.Created:
		return "created"
	case a.Plan.Empty():
		return "unchanged"
	default:
		return "updated"
	}
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// ReportToCSV converts a RunReport to CSV with one row per album:
// Album, AlbumID, Status, Queries, Desired, Current, Added, Removed, Error
func ReportToCSV(report *tasks.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Album", "AlbumID", "Status", "Queries", "Desired", "Current", "Added", "Removed", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range report.Albums {
		record := []string{
			a.Name,
			a.AlbumID,
			status(a),
			strconv.Itoa(len(a.Queries)),
			strconv.Itoa(a.Desired),
			strconv.Itoa(a.Current),
			strconv.Itoa(a.Plan.ToAdd.Len()),
			strconv.Itoa(a.Plan.ToRemove.Len()),
			errText(a.Err),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown converts a RunReport to a Markdown summary table
func ReportToMarkdown(report *tasks.RunReport) []byte {
	var buf bytes.Buffer

	title := "Sync report"
	if report.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Started**: %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "**Duration**: %s\n", report.Duration().Round(time.Millisecond))
	if report.Server != (models.ServerVersion{}) {
		fmt.Fprintf(&buf, "**Server**: %s\n", report.Server)
	}
	fmt.Fprintf(&buf, "**Albums**: %d (%d failed)\n\n", len(report.Albums), report.Failed())

	if len(report.Albums) > 0 {
		buf.WriteString("| Album | Status | Queries | Assets | Added | Removed |\n")
		buf.WriteString("|---|---|---:|---:|---:|---:|\n")
		for _, a := range report.Albums {
			fmt.Fprintf(&buf, "| %s | %s | %d | %d | %d | %d |\n",
				escapeCell(a.Name), status(a), len(a.Queries), a.Desired, a.Plan.ToAdd.Len(), a.Plan.ToRemove.Len())
		}
		buf.WriteString("\n")
	}

	var failures []*tasks.AlbumResult
	for _, a := range report.Albums {
		if a.Failed() {
			failures = append(failures, a)
		}
	}
	if len(failures) > 0 || report.Err != nil {
		buf.WriteString("## Errors\n\n")
		for _, a := range failures {
			fmt.Fprintf(&buf, "- **%s**: %s\n", a.Name, a.Err)
		}
		if report.Err != nil && len(failures) == 0 {
			fmt.Fprintf(&buf, "- %s\n", report.Err)
		}
	}

	return buf.Bytes()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ReportToText converts a RunReport to plain text, one line per album
func ReportToText(report *tasks.RunReport) []byte {
	var buf bytes.Buffer

	mode := ""
	if report.DryRun {
		mode = " [dry run]"
	}
	fmt.Fprintf(&buf, "Synced %d albums in %s%s\n", len(report.Albums), report.Duration().Round(time.Millisecond), mode)

	for i, a := range report.Albums {
		if a.Failed() {
			fmt.Fprintf(&buf, "%d. %s: FAILED: %v\n", i+1, a.Name, a.Err)
			continue
		}
		fmt.Fprintf(&buf, "%d. %s: %s, %d queries, %d assets (+%d -%d)\n",
			i+1, a.Name, status(a), len(a.Queries), a.Desired, a.Plan.ToAdd.Len(), a.Plan.ToRemove.Len())
	}

	if report.Failed() > 0 {
		fmt.Fprintf(&buf, "%d of %d albums failed\n", report.Failed(), len(report.Albums))
	}

	return buf.Bytes()
}

type albumJSON struct {
	Name    string   `json:"name"`
	AlbumID string   `json:"album_id,omitempty"`
	Status  string   `json:"status"`
	Queries int      `json:"queries"`
	Desired int      `json:"desired"`
	Current int      `json:"current"`
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Error   string   `json:"error,omitempty"`
}

type reportJSON struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	DryRun     bool        `json:"dry_run"`
	Server     string      `json:"server,omitempty"`
	Albums     []albumJSON `json:"albums"`
	Error      string      `json:"error,omitempty"`
}

// ReportToJSON converts a RunReport to indented JSON including the asset IDs of each plan
func ReportToJSON(report *tasks.RunReport) ([]byte, error) {
	out := reportJSON{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		DryRun:     report.DryRun,
		Albums:     make([]albumJSON, 0, len(report.Albums)),
		Error:      errText(report.Err),
	}
	if report.Server != (models.ServerVersion{}) {
		out.Server = report.Server.String()
	}

	for _, a := range report.Albums {
		out.Albums = append(out.Albums, albumJSON{
			Name:    a.Name,
			AlbumID: a.AlbumID,
			Status:  status(a),
			Queries: len(a.Queries),
			Desired: a.Desired,
			Current: a.Current,
			Added:   a.Plan.ToAdd.Sorted(),
			Removed: a.Plan.ToRemove.Sorted(),
			Error:   errText(a.Err),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

// Report renders report in the given format
func Report(report *tasks.RunReport, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return ReportToText(report), nil
	case FormatMarkdown:
		return ReportToMarkdown(report), nil
	case FormatCSV:
		return ReportToCSV(report)
	case FormatJSON:
		return ReportToJSON(report)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// WriteReport renders report and writes it to path, picking the format from the extension.
func WriteReport(report *tasks.RunReport, path string) error {
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}

	data, err := Report(report, format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// QueriesToText lists the atomic searches an album expands to
func QueriesToText(name string, queries []models.AtomicQuery) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Album: %s\n", name)
	fmt.Fprintf(&buf, "Queries: %d\n", len(queries))
	for i, q := range queries {
		fmt.Fprintf(&buf, "  %d. %s\n", i+1, q)
	}

	return buf.Bytes()
}

// HistoryToText lists stored runs, newest first
func HistoryToText(runs []*models.SyncRun) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No sync runs recorded\n")
		return buf.Bytes()
	}

	for _, r := range runs {
		mode := ""
		if r.DryRun() {
			mode = " dry-run"
		}
		fmt.Fprintf(&buf, "#%d  %s  %s  albums=%d failed=%d%s\n",
			r.Sequence(), r.StartedAt().Local().Format(time.DateTime), r.Duration().Round(time.Millisecond),
			r.AlbumsTotal(), r.AlbumsFailed(), mode)
		if msg := r.ErrorMessage(); msg != "" {
			fmt.Fprintf(&buf, "    error: %s\n", msg)
		}
	}

	return buf.Bytes()
}

// RunToText renders one stored run with its album outcomes
func RunToText(run *models.SyncRun) []byte {
	var buf bytes.Buffer
	buf.Write(HistoryToText([]*models.SyncRun{run}))

	for _, a := range run.Albums() {
		if a.Failed() {
			fmt.Fprintf(&buf, "  %s: FAILED: %s\n", a.AlbumName(), a.ErrorMessage())
			continue
		}
		created := ""
		if a.Created() {
			created = " (created)"
		}
		fmt.Fprintf(&buf, "  %s%s: %d queries, %d assets (+%d -%d)\n",
			a.AlbumName(), created, a.Queries(), a.Desired(), a.Added(), a.Removed())
	}

	return buf.Bytes()
}
