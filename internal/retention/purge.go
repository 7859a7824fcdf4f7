package retention

import (
	"context"
	"log/slog"
	"time"
)

// RunPurge removes every fix for the boat recorded before cutoff, beyond any
// downsampling tier. No bucketing is involved: in live mode the executor
// deletes bounded batches of the oldest matching fixes until a short batch
// signals exhaustion; in dry-run mode it answers with a count-only query.
func RunPurge(
	ctx context.Context,
	exec Executor,
	boatID string,
	cutoff time.Time,
) (int64, error) {
	slog.Info("[Retention] Starting purge",
		"boat_id", boatID,
		"cutoff", cutoff,
		"dry_run", exec.DryRun(),
	)

	deleted, err := exec.PurgeOlderThan(ctx, boatID, cutoff)
	if err != nil {
		return deleted, err
	}

	if exec.DryRun() {
		slog.Info("[Retention] [DRY RUN] Purge would delete fixes", "would_delete", deleted)
	} else {
		slog.Info("[Retention] Purge complete", "deleted", deleted)
	}

	return deleted, nil
}
