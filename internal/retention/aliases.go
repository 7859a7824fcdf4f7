package retention

import core "github.com/mailbradsimmscom/pi/internal/core/retention"

// Re-export core retention types for package-level compatibility.
type Tier = core.Tier
type CleanupResult = core.CleanupResult

var (
	BucketFor       = core.BucketFor
	SelectSurvivors = core.SelectSurvivors
	ParseSpan       = core.ParseSpan
)
