package monitoringRepository

const (
	queryCreateDetection = `
		INSERT INTO detection_logs (
			id,
			employee_id,
			timestamp,
			is_present,
			emotion,
			confidence
		) VALUES (
			:id,
			:employee_id,
			:timestamp,
			:is_present,
			:emotion,
			:confidence
		)
	`

	queryGetDetectionsByEmployee = `
		SELECT
			id,
			employee_id,
			timestamp,
			is_present,
			emotion,
			confidence
		FROM detection_logs
		WHERE employee_id = :employee_id
		ORDER BY timestamp DESC
		LIMIT :limit
	`

	queryGetDetectionsByEmployeeFrom = `
		SELECT
			id,
			employee_id,
			timestamp,
			is_present,
			emotion,
			confidence
		FROM detection_logs
		WHERE
			employee_id = :employee_id
			AND timestamp >= :start
		ORDER BY timestamp DESC
		LIMIT :limit
	`

	queryGetDetectionsByEmployeeUntil = `
		SELECT
			id,
			employee_id,
			timestamp,
			is_present,
			emotion,
			confidence
		FROM detection_logs
		WHERE
			employee_id = :employee_id
			AND timestamp < :end
		ORDER BY timestamp DESC
		LIMIT :limit
	`

	queryGetDetectionsByEmployeeRange = `
		SELECT
			id,
			employee_id,
			timestamp,
			is_present,
			emotion,
			confidence
		FROM detection_logs
		WHERE
			employee_id = :employee_id
			AND timestamp >= :start
			AND timestamp < :end
		ORDER BY timestamp DESC
		LIMIT :limit
	`
)
