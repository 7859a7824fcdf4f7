package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/mailbradsimmscom/pi/internal/api/v1"
)

// ErrDuplicate is returned when a fix with the same id already exists.
var ErrDuplicate = errors.New("fix already exists")

// ErrNotFound is returned when a lookup matches no fix.
var ErrNotFound = errors.New("fix not found")

// FixRef is the minimal projection of a fix used by retention scans.
// Fetching only (id, recorded_at) keeps a full day of fixes cheap to hold.
type FixRef struct {
	ID         string
	RecordedAt time.Time
}

// FixStore defines the interface for storing, querying and deleting fixes.
type FixStore interface {
	// SaveFix persists a fix. Returns ErrDuplicate if the id already exists.
	SaveFix(ctx context.Context, fix *v1.Fix) error

	// FetchRefsInRange returns (id, recorded_at) pairs for one boat over the
	// half-open interval [start, end), ordered by recorded_at ASC.
	// Retention relies on that ordering: the first ref seen per bucket is
	// the one that survives.
	FetchRefsInRange(ctx context.Context, boatID string, start, end time.Time) ([]FixRef, error)

	// DeleteByIDs deletes the given fixes and returns the number of rows the
	// store actually removed. Already-deleted ids count as zero affected.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)

	// DeleteOlderThan deletes up to limit of the oldest fixes recorded before
	// cutoff and returns the affected count. Callers loop until a short batch
	// signals exhaustion.
	DeleteOlderThan(ctx context.Context, boatID string, cutoff time.Time, limit int) (int64, error)

	// CountOlderThan counts fixes recorded before cutoff without mutating
	// anything. Used by dry-run purges.
	CountOlderThan(ctx context.Context, boatID string, cutoff time.Time) (int64, error)

	// LatestFix returns the most recent fix for a boat, or ErrNotFound.
	LatestFix(ctx context.Context, boatID string) (*v1.Fix, error)

	// FetchFixesInRange returns full fixes over [start, end), recorded_at ASC,
	// capped at limit. Serves the track read API.
	FetchFixesInRange(ctx context.Context, boatID string, start, end time.Time, limit int) ([]*v1.Fix, error)
}
