package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// DefaultStep is the sub-window size for tier scans. One calendar day keeps
// peak memory at one day's worth of (id, recorded_at) pairs regardless of how
// wide the tier window is. Tests use much smaller steps.
const DefaultStep = 24 * time.Hour

// RunTier downsamples one retention tier for one boat as of a fixed instant.
//
// The tier's age window is resolved against asOf into [start, end) and
// scanned in step-sized sub-windows, fetch-then-delete per sub-window. An
// empty resolved window is a configuration no-op, not an error: the tier
// contributes zero and the run moves on.
//
// A failed fetch or delete aborts the tier immediately. Deletions already
// issued are not rolled back; the whole operation is monotone and
// idempotent, so the partial result stands and a re-run resumes safely.
func RunTier(
	ctx context.Context,
	store storage.FixStore,
	exec Executor,
	boatID string,
	tier Tier,
	asOf time.Time,
	step time.Duration,
) (CleanupResult, error) {
	if step <= 0 {
		step = DefaultStep
	}

	winStart, winEnd := tier.Window(asOf)
	if !winStart.Before(winEnd) {
		slog.Warn("[Retention] Tier window is empty, skipping",
			"tier", tier.Name,
			"window_start", winStart,
			"window_end", winEnd,
		)
		return CleanupResult{}, nil
	}

	slog.Info("[Retention] Starting tier",
		"tier", tier.Name,
		"boat_id", boatID,
		"window_start", winStart,
		"window_end", winEnd,
		"bucket_width", tier.BucketWidth,
		"dry_run", exec.DryRun(),
	)

	var result CleanupResult

	for cur := winStart; cur.Before(winEnd); {
		next := cur.Add(step)
		if next.After(winEnd) {
			next = winEnd
		}

		refs, err := store.FetchRefsInRange(ctx, boatID, cur, next)
		if err != nil {
			return result, fmt.Errorf("tier %s: fetch %s: %w", tier.Name, cur.Format(time.RFC3339), err)
		}
		if len(refs) == 0 {
			cur = next
			continue
		}

		kept, deleteIDs := SelectSurvivors(refs, tier.BucketWidth)
		result.Kept += int64(kept)

		if len(deleteIDs) > 0 {
			affected, err := exec.DeleteFixes(ctx, deleteIDs)
			if exec.DryRun() {
				result.WouldDelete += affected
			} else {
				result.Deleted += affected
			}
			if err != nil {
				return result, fmt.Errorf("tier %s: delete in %s: %w", tier.Name, cur.Format(time.RFC3339), err)
			}

			if exec.DryRun() {
				slog.Info("[Retention] [DRY RUN] Would delete fixes",
					"tier", tier.Name,
					"sub_window", cur.Format(time.RFC3339),
					"would_delete", len(deleteIDs),
				)
			} else {
				slog.Info("[Retention] Deleted fixes",
					"tier", tier.Name,
					"sub_window", cur.Format(time.RFC3339),
					"deleted", affected,
				)
			}
		}

		cur = next
	}

	slog.Info("[Retention] Tier complete",
		"tier", tier.Name,
		"kept", result.Kept,
		"deleted", result.Deleted,
		"would_delete", result.WouldDelete,
	)

	return result, nil
}
