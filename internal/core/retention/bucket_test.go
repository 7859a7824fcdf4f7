package retention

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

func TestBucketFor(t *testing.T) {
	ts := time.Date(2026, 8, 12, 10, 35, 42, 123456789, time.UTC)

	require.Equal(t,
		time.Date(2026, 8, 12, 10, 35, 0, 0, time.UTC),
		BucketFor(ts, time.Minute),
	)
	require.Equal(t,
		time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC),
		BucketFor(ts, 10*time.Minute),
	)
}

func TestSelectSurvivors_OnePerBucket(t *testing.T) {
	// 60 fixes at 1/second, all inside the same minute bucket.
	base := time.Date(2026, 8, 1, 9, 15, 0, 0, time.UTC)
	refs := make([]storage.FixRef, 0, 60)
	for i := 0; i < 60; i++ {
		refs = append(refs, storage.FixRef{
			ID:         fmt.Sprintf("fix-%02d", i),
			RecordedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	kept, deleteIDs := SelectSurvivors(refs, time.Minute)
	require.Equal(t, 1, kept)
	require.Len(t, deleteIDs, 59)

	// The survivor is the first in input order.
	assert.NotContains(t, deleteIDs, "fix-00")
}

func TestSelectSurvivors_MultipleBuckets(t *testing.T) {
	// 5 fixes across 3 distinct minute buckets (2, 2, 1).
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	refs := []storage.FixRef{
		{ID: "a1", RecordedAt: base.Add(10 * time.Second)},
		{ID: "a2", RecordedAt: base.Add(40 * time.Second)},
		{ID: "b1", RecordedAt: base.Add(60 * time.Second)},
		{ID: "b2", RecordedAt: base.Add(90 * time.Second)},
		{ID: "c1", RecordedAt: base.Add(125 * time.Second)},
	}

	kept, deleteIDs := SelectSurvivors(refs, time.Minute)
	require.Equal(t, 3, kept)
	require.Equal(t, []string{"a2", "b2"}, deleteIDs)
}

func TestSelectSurvivors_RetentionInvariant(t *testing.T) {
	// Exactly one survivor per bucket: kept + deleted == total input,
	// and kept == number of distinct buckets.
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	var refs []storage.FixRef
	for i := 0; i < 500; i++ {
		refs = append(refs, storage.FixRef{
			ID:         fmt.Sprintf("fix-%03d", i),
			RecordedAt: base.Add(time.Duration(i*7) * time.Second),
		})
	}

	kept, deleteIDs := SelectSurvivors(refs, 10*time.Minute)
	require.Equal(t, len(refs), kept+len(deleteIDs))

	buckets := make(map[time.Time]struct{})
	for _, ref := range refs {
		buckets[BucketFor(ref.RecordedAt, 10*time.Minute)] = struct{}{}
	}
	require.Equal(t, len(buckets), kept)
}

func TestSelectSurvivors_SingletonBucketsDeleteNothing(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	refs := []storage.FixRef{
		{ID: "x", RecordedAt: base},
		{ID: "y", RecordedAt: base.Add(time.Minute)},
		{ID: "z", RecordedAt: base.Add(2 * time.Minute)},
	}

	kept, deleteIDs := SelectSurvivors(refs, time.Minute)
	require.Equal(t, 3, kept)
	require.Empty(t, deleteIDs)
}

func TestSelectSurvivors_Deterministic(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var refs []storage.FixRef
	for i := 0; i < 120; i++ {
		refs = append(refs, storage.FixRef{
			ID:         fmt.Sprintf("fix-%03d", i),
			RecordedAt: base.Add(time.Duration(i*13) * time.Second),
		})
	}

	_, first := SelectSurvivors(refs, time.Minute)
	_, second := SelectSurvivors(refs, time.Minute)
	require.Equal(t, first, second)
}

func TestSelectSurvivors_Empty(t *testing.T) {
	kept, deleteIDs := SelectSurvivors(nil, time.Minute)
	require.Zero(t, kept)
	require.Empty(t, deleteIDs)
}
