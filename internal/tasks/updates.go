package tasks

import (
	"fmt"

	"github.com/desertthunder/albumsync/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Album   string // Album being synced, empty for run-level phases
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	CheckServer Phase = iota
	FetchMappings
	ExpandQueries
	SearchAssets
	ResolveAlbum
	FetchMembers
	ApplyPlan
	AlbumDone
	AlbumFailed
)

func (p Phase) String() string {
	switch p {
	case CheckServer:
		return "check_server"
	case FetchMappings:
		return "fetch_mappings"
	case ExpandQueries:
		return "expand_queries"
	case SearchAssets:
		return "search_assets"
	case ResolveAlbum:
		return "resolve_album"
	case FetchMembers:
		return "fetch_members"
	case ApplyPlan:
		return "apply_plan"
	case AlbumDone:
		return "album_done"
	case AlbumFailed:
		return "album_failed"
	default:
		return ""
	}
}

func checkServerUpdate(v *models.ServerVersion) ProgressUpdate {
	if v == nil {
		return ProgressUpdate{Phase: CheckServer, Step: 1, Total: 1, Message: "Checking server version..."}
	}
	return ProgressUpdate{Phase: CheckServer, Step: 1, Total: 1, Message: fmt.Sprintf("Server version %s", v), Data: *v}
}

func fetchMappingsUpdate(step, total int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMappings,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", what),
	}
}

func expandQueriesUpdate(album string, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExpandQueries,
		Album:   album,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s: %d search queries", album, n),
	}
}

func searchAssetsUpdate(album string, step, total int, q models.AtomicQuery) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchAssets,
		Album:   album,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, q),
		Data:    q,
	}
}

func resolveAlbumUpdate(album string, created bool) ProgressUpdate {
	msg := fmt.Sprintf("Found album %s", album)
	if created {
		msg = fmt.Sprintf("Creating album %s...", album)
	}
	return ProgressUpdate{Phase: ResolveAlbum, Album: album, Step: 1, Total: 1, Message: msg}
}

func fetchMembersUpdate(album string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMembers,
		Album:   album,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching current members of %s...", album),
	}
}

func applyPlanUpdate(album string, step, total int, action string, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ApplyPlan,
		Album:   album,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: %s %d assets", album, action, n),
	}
}

func albumDoneUpdate(step, total int, res *AlbumResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AlbumDone,
		Album:   res.Name,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (+%d -%d, %d assets)", step, total, res.Name, res.Plan.ToAdd.Len(), res.Plan.ToRemove.Len(), res.Desired),
		Data:    res,
	}
}

func albumFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AlbumFailed,
		Album:   name,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
