package postgres

import (
	"database/sql"
	"fmt"

	v1 "github.com/mailbradsimmscom/pi/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanFixRow scans a database row into a Fix struct.
// Handles nullable telemetry columns (altitude, SOG, COG).
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanFixRow(row scanner) (*v1.Fix, error) {
	var fix v1.Fix
	var altitude, sog, cog sql.NullFloat64

	err := row.Scan(
		&fix.ID,
		&fix.BoatID,
		&fix.Latitude,
		&fix.Longitude,
		&altitude,
		&sog,
		&cog,
		&fix.RecordedAt,
		&fix.IngestedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan fix row: %w", err)
	}

	if altitude.Valid {
		fix.Altitude = &altitude.Float64
	}
	if sog.Valid {
		fix.SpeedOverGround = &sog.Float64
	}
	if cog.Valid {
		fix.CourseOverGround = &cog.Float64
	}

	return &fix, nil
}

// nullableFloat converts an optional telemetry value to its SQL form.
// Nil produces SQL NULL rather than a zero reading.
func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
