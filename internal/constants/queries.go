package constants

const (
	CountRecordsByMonth = `
	SELECT month_key, COUNT(*) AS records
	FROM presence_records
	GROUP BY month_key
	ORDER BY month_key DESC
	`

	DistinctRecordMonthKeys = `
	SELECT DISTINCT month_key FROM presence_records ORDER BY month_key DESC
	`
)
