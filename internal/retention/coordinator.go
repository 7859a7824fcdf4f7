package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mailbradsimmscom/pi/internal/core/storage"
)

// Policy is the complete retention policy for a boat: downsampling tiers in
// age order, then a hard purge beyond the oldest tier. A Policy is pure
// configuration, resolved against an as-of instant on every run.
type Policy struct {
	Tiers      []Tier
	PurgeAfter time.Duration
	Step       time.Duration
}

// DefaultPolicy keeps full-rate fixes for a week, one per minute up to a
// month, one per ten minutes up to ninety days, and nothing older.
func DefaultPolicy() Policy {
	day := 24 * time.Hour
	return Policy{
		Tiers: []Tier{
			{Name: "1m", MinAge: 7 * day, MaxAge: 30 * day, BucketWidth: time.Minute},
			{Name: "10m", MinAge: 30 * day, MaxAge: 90 * day, BucketWidth: 10 * time.Minute},
		},
		PurgeAfter: 90 * day,
		Step:       DefaultStep,
	}
}

// Validate rejects policies the coordinator could not run sensibly.
func (p Policy) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("policy needs at least one tier")
	}
	for _, tier := range p.Tiers {
		if err := tier.Validate(); err != nil {
			return err
		}
	}
	if p.PurgeAfter <= 0 {
		return fmt.Errorf("purge_after must be > 0")
	}
	for _, tier := range p.Tiers {
		if tier.MaxAge > p.PurgeAfter {
			return fmt.Errorf("tier %q max age %s extends past purge cutoff %s", tier.Name, tier.MaxAge, p.PurgeAfter)
		}
	}
	return nil
}

// TierOutcome pairs one tier with its run result.
type TierOutcome struct {
	Tier   Tier          `json:"-"`
	Name   string        `json:"name"`
	Result CleanupResult `json:"result"`
}

// Summary reports one full cleanup run.
type Summary struct {
	BoatID       string        `json:"boat_id"`
	AsOf         time.Time     `json:"as_of"`
	DryRun       bool          `json:"dry_run"`
	Tiers        []TierOutcome `json:"tiers"`
	PurgeDeleted int64         `json:"purge_deleted"`
	TotalDeleted int64         `json:"total_deleted"`
}

// Coordinator orchestrates the full retention policy against one store.
type Coordinator struct {
	store  storage.FixStore
	policy Policy
}

// NewCoordinator validates the policy and returns a coordinator.
// Tiers are ordered youngest-first so downsampling always runs before the
// unbounded purge touches anything.
func NewCoordinator(store storage.FixStore, policy Policy) (*Coordinator, error) {
	if store == nil {
		return nil, fmt.Errorf("retention: store must not be nil")
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("retention: invalid policy: %w", err)
	}

	tiers := make([]Tier, len(policy.Tiers))
	copy(tiers, policy.Tiers)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinAge < tiers[j].MinAge
	})
	policy.Tiers = tiers

	return &Coordinator{store: store, policy: policy}, nil
}

// RunFullCleanup runs every tier in age order, then the purge, all against a
// single as-of instant so no fix can fall through a gap between tier
// boundaries mid-run.
//
// On a stage failure the remaining stages do not run; the summary carries the
// counts accumulated so far alongside the error. Retention is monotone and
// idempotent, so the caller's scheduler simply retries the whole run.
func (c *Coordinator) RunFullCleanup(ctx context.Context, asOf time.Time, boatID string, dryRun bool) (Summary, error) {
	exec := NewExecutor(c.store, dryRun)

	summary := Summary{
		BoatID: boatID,
		AsOf:   asOf,
		DryRun: dryRun,
	}

	slog.Info("[Retention] Starting full cleanup",
		"boat_id", boatID,
		"as_of", asOf,
		"tiers", len(c.policy.Tiers),
		"dry_run", dryRun,
	)

	for _, tier := range c.policy.Tiers {
		result, err := RunTier(ctx, c.store, exec, boatID, tier, asOf, c.policy.Step)
		summary.Tiers = append(summary.Tiers, TierOutcome{Tier: tier, Name: tier.Name, Result: result})
		summary.TotalDeleted += stageCount(result, dryRun)
		if err != nil {
			return summary, fmt.Errorf("full cleanup aborted: %w", err)
		}
	}

	purged, err := RunPurge(ctx, exec, boatID, asOf.Add(-c.policy.PurgeAfter))
	summary.PurgeDeleted = purged
	summary.TotalDeleted += purged
	if err != nil {
		return summary, fmt.Errorf("full cleanup aborted: %w", err)
	}

	slog.Info("[Retention] Full cleanup complete",
		"boat_id", boatID,
		"total_deleted", summary.TotalDeleted,
		"dry_run", dryRun,
	)

	return summary, nil
}

// PurgeOlderThan runs the purge stage alone with an arbitrary age cutoff,
// for operator-driven ad hoc cleanup outside the fixed policy.
func (c *Coordinator) PurgeOlderThan(ctx context.Context, asOf time.Time, boatID string, olderThan time.Duration, dryRun bool) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("retention: purge age must be > 0")
	}
	exec := NewExecutor(c.store, dryRun)
	return RunPurge(ctx, exec, boatID, asOf.Add(-olderThan))
}

// Policy returns the coordinator's normalized policy.
func (c *Coordinator) Policy() Policy {
	return c.policy
}

func stageCount(result CleanupResult, dryRun bool) int64 {
	if dryRun {
		return result.WouldDelete
	}
	return result.Deleted
}
