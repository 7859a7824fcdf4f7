package retention

// CleanupResult aggregates the outcome of one tier or stage.
// In live mode Deleted carries store-reported counts; in dry-run mode
// WouldDelete carries the simulated count and Deleted stays zero.
type CleanupResult struct {
	Kept        int64 `json:"kept"`
	Deleted     int64 `json:"deleted"`
	WouldDelete int64 `json:"would_delete"`
}

// Merge adds another result into this one.
func (r *CleanupResult) Merge(other CleanupResult) {
	r.Kept += other.Kept
	r.Deleted += other.Deleted
	r.WouldDelete += other.WouldDelete
}
