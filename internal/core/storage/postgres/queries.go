package postgres

// SQL queries for fix storage and retention operations

const (
	// querySaveFix inserts a fix. ON CONFLICT DO NOTHING makes collector
	// retries idempotent; zero rows affected means the id already existed.
	querySaveFix = `
		INSERT INTO gps_fixes (
			id, boat_id, latitude, longitude, altitude,
			speed_over_ground, course_over_ground, recorded_at, ingested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	// queryFetchRefsInRange fetches only (id, recorded_at) for a retention
	// scan over the half-open interval [start, end). Ordering by recorded_at
	// then id makes the survivor choice deterministic when timestamps tie.
	queryFetchRefsInRange = `
		SELECT id, recorded_at
		FROM gps_fixes
		WHERE boat_id = $1
		  AND recorded_at >= $2
		  AND recorded_at < $3
		ORDER BY recorded_at ASC, id ASC
	`

	// queryDeleteByIDs deletes one batch of fixes by id set.
	queryDeleteByIDs = `
		DELETE FROM gps_fixes
		WHERE id = ANY($1)
	`

	// queryDeleteOlderThan deletes up to $3 of the oldest fixes before the
	// cutoff. The subselect bounds the statement so one call never turns
	// into a table-wide long-running delete.
	queryDeleteOlderThan = `
		DELETE FROM gps_fixes
		WHERE id IN (
			SELECT id
			FROM gps_fixes
			WHERE boat_id = $1
			  AND recorded_at < $2
			ORDER BY recorded_at ASC
			LIMIT $3
		)
	`

	// queryCountOlderThan counts purge candidates without touching them.
	queryCountOlderThan = `
		SELECT COUNT(*)
		FROM gps_fixes
		WHERE boat_id = $1
		  AND recorded_at < $2
	`

	// queryLatestFix returns the most recent fix for a boat.
	queryLatestFix = `
		SELECT
			id, boat_id, latitude, longitude, altitude,
			speed_over_ground, course_over_ground, recorded_at, ingested_at
		FROM gps_fixes
		WHERE boat_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	// queryFetchFixesInRange returns full fixes over [start, end) for the
	// track read API, oldest first.
	queryFetchFixesInRange = `
		SELECT
			id, boat_id, latitude, longitude, altitude,
			speed_over_ground, course_over_ground, recorded_at, ingested_at
		FROM gps_fixes
		WHERE boat_id = $1
		  AND recorded_at >= $2
		  AND recorded_at < $3
		ORDER BY recorded_at ASC
		LIMIT $4
	`
)
