package collector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	v1 "github.com/mailbradsimmscom/pi/internal/api/v1"
	"github.com/mailbradsimmscom/pi/internal/core/storage"
	"github.com/mailbradsimmscom/pi/internal/metrics"
)

// PositionSource yields the current navigation snapshot.
// SignalKClient is the production implementation.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (*Position, error)
}

// Collector polls a position source on a fixed cadence and persists each
// snapshot as a fix. One collector serves one boat.
type Collector struct {
	source   PositionSource
	store    storage.FixStore
	boatID   string
	interval time.Duration
	metrics  *metrics.Metrics
}

func NewCollector(source PositionSource, store storage.FixStore, boatID string, interval time.Duration, m *metrics.Metrics) *Collector {
	if source == nil {
		panic("collector: source must not be nil")
	}
	if store == nil {
		panic("collector: store must not be nil")
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		source:   source,
		store:    store,
		boatID:   boatID,
		interval: interval,
		metrics:  m,
	}
}

// Start polls until the context is cancelled. Individual cycle failures are
// logged and counted; the loop always continues to the next tick.
func (c *Collector) Start(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Info("[Collector] Starting telemetry collector",
		"boat_id", c.boatID,
		"poll_interval", c.interval,
	)

	// Capture one fix immediately instead of waiting a full interval.
	c.collectOnce(ctx)

	for {
		select {
		case <-ticker.C:
			c.collectOnce(ctx)
		case <-ctx.Done():
			slog.Info("[Collector] Stopping (context cancelled)", "boat_id", c.boatID)
			return nil
		}
	}
}

func (c *Collector) collectOnce(ctx context.Context) {
	pos, err := c.source.CurrentPosition(ctx)
	if err != nil {
		slog.Warn("[Collector] No position available, skipping cycle", "error", err)
		if c.metrics != nil {
			c.metrics.CollectErrors.WithLabelValues("fetch").Inc()
		}
		return
	}

	fix := &v1.Fix{
		ID:               uuid.NewString(),
		BoatID:           c.boatID,
		Latitude:         pos.Latitude,
		Longitude:        pos.Longitude,
		Altitude:         pos.Altitude,
		SpeedOverGround:  pos.SpeedOverGround,
		CourseOverGround: pos.CourseOverGround,
		RecordedAt:       pos.Timestamp.UTC(),
		IngestedAt:       time.Now().UTC(),
	}

	if err := fix.Validate(); err != nil {
		slog.Error("[Collector] Dropping invalid fix", "error", err)
		if c.metrics != nil {
			c.metrics.CollectErrors.WithLabelValues("validate").Inc()
		}
		return
	}

	if err := c.store.SaveFix(ctx, fix); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// The source clock did not advance between polls.
			slog.Debug("[Collector] Duplicate fix skipped", "fix_id", fix.ID)
			return
		}
		slog.Error("[Collector] Failed to persist fix", "fix_id", fix.ID, "error", err)
		if c.metrics != nil {
			c.metrics.CollectErrors.WithLabelValues("store").Inc()
		}
		return
	}

	if c.metrics != nil {
		c.metrics.FixesCollected.Inc()
	}
	slog.Debug("[Collector] Stored fix",
		"fix_id", fix.ID,
		"latitude", fix.Latitude,
		"longitude", fix.Longitude,
	)
}
