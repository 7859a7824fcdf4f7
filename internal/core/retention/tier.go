package retention

import (
	"fmt"
	"time"
)

// Tier is one age-bounded downsampling policy: fixes whose age falls inside
// [MinAge, MaxAge) keep one survivor per BucketWidth.
// A Tier is pure configuration; nothing about it is persisted.
type Tier struct {
	Name        string
	MinAge      time.Duration
	MaxAge      time.Duration
	BucketWidth time.Duration
}

// Window resolves the tier's age window against an explicit as-of instant
// into an absolute half-open interval [start, end). The caller reads the
// clock once per run so every tier shares the same notion of "now".
func (t Tier) Window(asOf time.Time) (start, end time.Time) {
	return asOf.Add(-t.MaxAge), asOf.Add(-t.MinAge)
}

// Validate rejects tiers that could never select a sane window.
// A tier that fails validation at config time never reaches a run; a tier
// whose resolved window is empty at run time is treated as a no-op instead.
func (t Tier) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tier name is required")
	}
	if t.BucketWidth <= 0 {
		return fmt.Errorf("tier %q: bucket width must be > 0", t.Name)
	}
	if time.Hour%t.BucketWidth != 0 {
		return fmt.Errorf("tier %q: bucket width %s must divide one hour", t.Name, t.BucketWidth)
	}
	if t.MinAge < 0 || t.MaxAge < 0 {
		return fmt.Errorf("tier %q: ages must be >= 0", t.Name)
	}
	if t.MinAge >= t.MaxAge {
		return fmt.Errorf("tier %q: min age %s must be less than max age %s", t.Name, t.MinAge, t.MaxAge)
	}
	return nil
}
