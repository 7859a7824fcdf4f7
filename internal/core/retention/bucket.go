package retention

import (
	"time"

	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// BucketFor truncates a timestamp to the nearest bucket boundary.
// Example: BucketFor(10:35:42, 10*time.Minute) → 10:30:00
func BucketFor(t time.Time, width time.Duration) time.Time {
	return t.Truncate(width)
}

// SelectSurvivors partitions refs into width-sized buckets and picks one
// survivor per bucket: the first ref encountered in input order. Every other
// ref in that bucket is returned for deletion, in input order.
//
// Input order is the fetch order from the store (recorded_at ASC); the engine
// trusts that ordering rather than re-sorting. The result is a pure function
// of the input, so re-running over an already-downsampled range selects
// nothing: each bucket holds at most one ref.
func SelectSurvivors(refs []storage.FixRef, width time.Duration) (kept int, deleteIDs []string) {
	if width <= 0 {
		return len(refs), nil
	}

	seen := make(map[time.Time]struct{})
	for _, ref := range refs {
		bucket := BucketFor(ref.RecordedAt, width)
		if _, ok := seen[bucket]; ok {
			deleteIDs = append(deleteIDs, ref.ID)
			continue
		}
		seen[bucket] = struct{}{}
		kept++
	}

	return kept, deleteIDs
}
