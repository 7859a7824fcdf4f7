package retention

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mailbradsimmscom/pi/internal/metrics"
)

// Scheduler runs full cleanup on a cron schedule.
// It is stateless between runs: every tick resolves the policy against a
// fresh as-of instant and scans whatever the store holds.
type Scheduler struct {
	coordinator *Coordinator
	boatID      string
	schedule    string
	dryRun      bool
	metrics     *metrics.Metrics

	running atomic.Bool
}

// NewScheduler creates a cron-driven retention scheduler.
// schedule is a standard five-field cron expression (e.g. "0 3 * * *").
func NewScheduler(coordinator *Coordinator, boatID, schedule string, dryRun bool, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		coordinator: coordinator,
		boatID:      boatID,
		schedule:    schedule,
		dryRun:      dryRun,
		metrics:     m,
	}
}

// Start registers the cron entry and blocks until the context is cancelled.
// A run still in flight when shutdown begins gets to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.runOnce(ctx) }); err != nil {
		return err
	}

	slog.Info("[Retention] Scheduler started",
		"schedule", s.schedule,
		"boat_id", s.boatID,
		"dry_run", s.dryRun,
	)

	c.Start()
	<-ctx.Done()

	slog.Info("[Retention] Scheduler stopping (context cancelled)")
	<-c.Stop().Done()
	return nil
}

// runOnce executes one full cleanup. Overlapping ticks are skipped: a second
// concurrent run would converge to the same result anyway, so there is
// nothing to gain from doubling the store load.
func (s *Scheduler) runOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("[Retention] Previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	asOf := time.Now().UTC()
	summary, err := s.coordinator.RunFullCleanup(ctx, asOf, s.boatID, s.dryRun)
	if err != nil {
		slog.Error("[Retention] Scheduled run failed",
			"error", err,
			"partial_total", summary.TotalDeleted,
		)
		if s.metrics != nil {
			s.metrics.RetentionRuns.WithLabelValues("error").Inc()
		}
		return
	}

	if s.metrics != nil {
		s.metrics.RetentionRuns.WithLabelValues("ok").Inc()
		s.metrics.LastRetentionTs.Set(float64(asOf.Unix()))
		if !s.dryRun {
			for _, outcome := range summary.Tiers {
				s.metrics.FixesDeleted.WithLabelValues("tier_" + outcome.Name).Add(float64(outcome.Result.Deleted))
			}
			s.metrics.FixesDeleted.WithLabelValues("purge").Add(float64(summary.PurgeDeleted))
		}
	}
}
