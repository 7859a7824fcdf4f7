package retention

import (
	"context"
	"fmt"
	"time"

	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// maxDeleteBatch bounds the size of any single delete call to the store.
const maxDeleteBatch = 1000

// Executor is the capability that applies or simulates deletions.
// Tier scanning and purge driving are written once; the executor decides
// whether store writes actually happen.
type Executor interface {
	// DeleteFixes removes the given fixes in chunks of at most maxDeleteBatch
	// ids. Returns the count the store reported deleted so far, which is
	// preserved even when a later chunk fails.
	DeleteFixes(ctx context.Context, ids []string) (int64, error)

	// PurgeOlderThan removes every fix for the boat recorded before cutoff
	// and returns the affected count.
	PurgeOlderThan(ctx context.Context, boatID string, cutoff time.Time) (int64, error)

	// DryRun reports whether this executor only simulates.
	DryRun() bool
}

// NewExecutor returns the live executor, or the simulating one when dryRun
// is set. The dry-run executor never issues a store write.
func NewExecutor(store storage.FixStore, dryRun bool) Executor {
	if dryRun {
		return &dryRunExecutor{store: store}
	}
	return &liveExecutor{store: store}
}

type liveExecutor struct {
	store storage.FixStore
}

func (e *liveExecutor) DeleteFixes(ctx context.Context, ids []string) (int64, error) {
	var deleted int64
	for start := 0; start < len(ids); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(ids) {
			end = len(ids)
		}

		affected, err := e.store.DeleteByIDs(ctx, ids[start:end])
		deleted += affected
		if err != nil {
			// Earlier chunks are committed and stay committed; the caller
			// gets the partial count alongside the error.
			return deleted, fmt.Errorf("delete batch of %d fixes: %w", end-start, err)
		}
	}
	return deleted, nil
}

func (e *liveExecutor) PurgeOlderThan(ctx context.Context, boatID string, cutoff time.Time) (int64, error) {
	var deleted int64
	for {
		affected, err := e.store.DeleteOlderThan(ctx, boatID, cutoff, maxDeleteBatch)
		deleted += affected
		if err != nil {
			return deleted, fmt.Errorf("purge batch: %w", err)
		}

		// A short batch means the store ran out of matching fixes.
		if affected < maxDeleteBatch {
			return deleted, nil
		}
	}
}

func (e *liveExecutor) DryRun() bool { return false }

type dryRunExecutor struct {
	store storage.FixStore
}

func (e *dryRunExecutor) DeleteFixes(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

func (e *dryRunExecutor) PurgeOlderThan(ctx context.Context, boatID string, cutoff time.Time) (int64, error) {
	count, err := e.store.CountOlderThan(ctx, boatID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("count purge candidates: %w", err)
	}
	return count, nil
}

func (e *dryRunExecutor) DryRun() bool { return true }
