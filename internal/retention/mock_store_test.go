package retention

import (
	"context"
	"sort"
	"time"

	v1 "github.com/mailbradsimmscom/pi/internal/api/v1"
	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// mockFixStore is an in-memory FixStore for retention tests. It behaves like
// the real adapter (half-open ranges, recorded_at ordering, affected counts)
// and records every call so tests can assert on batching and ordering.
type mockFixStore struct {
	fixes map[string]storage.FixRef

	fetchCalls  []fetchCall
	deleteCalls [][]string
	purgeCalls  int
	countCalls  int

	// deleteReturns overrides the affected count of successive DeleteByIDs
	// calls, simulating ids that were already gone.
	deleteReturns []int64

	// purgeReturns scripts the affected counts of successive DeleteOlderThan
	// calls instead of deriving them from the fix set.
	purgeReturns []int64

	// failDeleteOnCall aborts the Nth DeleteByIDs call (1-based) with
	// errDeleteFailed. Zero disables.
	failDeleteOnCall int

	fetchErr error
	countErr error
}

type fetchCall struct {
	boatID     string
	start, end time.Time
}

func newMockFixStore() *mockFixStore {
	return &mockFixStore{fixes: make(map[string]storage.FixRef)}
}

func (m *mockFixStore) add(id string, recordedAt time.Time) {
	m.fixes[id] = storage.FixRef{ID: id, RecordedAt: recordedAt}
}

func (m *mockFixStore) SaveFix(ctx context.Context, fix *v1.Fix) error {
	m.add(fix.ID, fix.RecordedAt)
	return nil
}

func (m *mockFixStore) FetchRefsInRange(ctx context.Context, boatID string, start, end time.Time) ([]storage.FixRef, error) {
	m.fetchCalls = append(m.fetchCalls, fetchCall{boatID: boatID, start: start, end: end})
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	var refs []storage.FixRef
	for _, ref := range m.fixes {
		if !ref.RecordedAt.Before(start) && ref.RecordedAt.Before(end) {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].RecordedAt.Equal(refs[j].RecordedAt) {
			return refs[i].ID < refs[j].ID
		}
		return refs[i].RecordedAt.Before(refs[j].RecordedAt)
	})
	return refs, nil
}

func (m *mockFixStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	m.deleteCalls = append(m.deleteCalls, append([]string(nil), ids...))

	if m.failDeleteOnCall > 0 && len(m.deleteCalls) == m.failDeleteOnCall {
		return 0, errDeleteFailed
	}

	var affected int64
	for _, id := range ids {
		if _, ok := m.fixes[id]; ok {
			delete(m.fixes, id)
			affected++
		}
	}

	if len(m.deleteReturns) > 0 {
		affected = m.deleteReturns[0]
		m.deleteReturns = m.deleteReturns[1:]
	}
	return affected, nil
}

func (m *mockFixStore) DeleteOlderThan(ctx context.Context, boatID string, cutoff time.Time, limit int) (int64, error) {
	m.purgeCalls++

	if len(m.purgeReturns) > 0 {
		affected := m.purgeReturns[0]
		m.purgeReturns = m.purgeReturns[1:]
		return affected, nil
	}

	var matching []storage.FixRef
	for _, ref := range m.fixes {
		if ref.RecordedAt.Before(cutoff) {
			matching = append(matching, ref)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		return matching[i].RecordedAt.Before(matching[j].RecordedAt)
	})
	if len(matching) > limit {
		matching = matching[:limit]
	}
	for _, ref := range matching {
		delete(m.fixes, ref.ID)
	}
	return int64(len(matching)), nil
}

func (m *mockFixStore) CountOlderThan(ctx context.Context, boatID string, cutoff time.Time) (int64, error) {
	m.countCalls++
	if m.countErr != nil {
		return 0, m.countErr
	}

	var count int64
	for _, ref := range m.fixes {
		if ref.RecordedAt.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

func (m *mockFixStore) LatestFix(ctx context.Context, boatID string) (*v1.Fix, error) {
	return nil, storage.ErrNotFound // not used by retention
}

func (m *mockFixStore) FetchFixesInRange(ctx context.Context, boatID string, start, end time.Time, limit int) ([]*v1.Fix, error) {
	return nil, nil // not used by retention
}
