package v1

import (
	"fmt"
	"time"
)

// Fix is the atomic unit of the system: one GPS position report for one boat.
type Fix struct {
	// ID is the unique immutable identifier assigned by the collector
	// at capture time. The store enforces uniqueness.
	ID string `json:"id"`

	// BoatID identifies the vessel this fix belongs to.
	// It is the partition key for every range query and every retention run.
	BoatID string `json:"boat_id"`

	// Latitude and Longitude in decimal degrees (WGS84).
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Altitude in meters above the reference ellipsoid. Optional: many GPS
	// sources on the Signal K bus do not report it.
	Altitude *float64 `json:"altitude,omitempty"`

	// SpeedOverGround in m/s and CourseOverGround in radians, as reported
	// by the navigation source. Optional.
	SpeedOverGround  *float64 `json:"speed_over_ground,omitempty"`
	CourseOverGround *float64 `json:"course_over_ground,omitempty"`

	// RecordedAt is when the fix happened according to the navigation
	// source (its clock). This is the timestamp retention buckets on.
	RecordedAt time.Time `json:"recorded_at"`

	// IngestedAt is when the collector wrote the fix (server-side clock).
	IngestedAt time.Time `json:"ingested_at"`
}

// Validate ensures the fix has all required attributes and sane coordinates.
func (f *Fix) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("id is required")
	}

	if f.BoatID == "" {
		return fmt.Errorf("boat_id is required")
	}

	if f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", f.Latitude)
	}

	if f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", f.Longitude)
	}

	if f.RecordedAt.IsZero() {
		return fmt.Errorf("recorded_at is required")
	}

	return nil
}
