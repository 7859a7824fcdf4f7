package v1

import (
	"testing"
	"time"
)

func TestFix_Validation(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		fix     Fix
		wantErr bool
	}{
		{
			name: "valid fix with all fields",
			fix: Fix{
				ID:         "fix_123",
				BoatID:     "boat-1",
				Latitude:   43.651,
				Longitude:  -70.248,
				RecordedAt: now,
			},
			wantErr: false,
		},
		{
			name: "missing id",
			fix: Fix{
				BoatID:     "boat-1",
				Latitude:   43.651,
				Longitude:  -70.248,
				RecordedAt: now,
			},
			wantErr: true,
		},
		{
			name: "missing boat_id",
			fix: Fix{
				ID:         "fix_123",
				Latitude:   43.651,
				Longitude:  -70.248,
				RecordedAt: now,
			},
			wantErr: true,
		},
		{
			name: "latitude out of range",
			fix: Fix{
				ID:         "fix_123",
				BoatID:     "boat-1",
				Latitude:   91,
				Longitude:  -70.248,
				RecordedAt: now,
			},
			wantErr: true,
		},
		{
			name: "longitude out of range",
			fix: Fix{
				ID:         "fix_123",
				BoatID:     "boat-1",
				Latitude:   43.651,
				Longitude:  -180.5,
				RecordedAt: now,
			},
			wantErr: true,
		},
		{
			name: "missing recorded_at",
			fix: Fix{
				ID:        "fix_123",
				BoatID:    "boat-1",
				Latitude:  43.651,
				Longitude: -70.248,
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fix.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
