package dtos

// TrainingDate is one column of the monthly grid.
type TrainingDate struct {
	Date         string `json:"date"`
	Weekday      int    `json:"weekday"`
	DayName      string `json:"day_name"`
	ShortDayName string `json:"short_day_name"`
}

// AttendanceRow holds one roster athlete's marks. Presences only contains true marks.
type AttendanceRow struct {
	Name      string          `json:"name"`
	Presences map[string]bool `json:"presences"`
	Total     int             `json:"total"`
}

type AttendanceMatrix struct {
	MonthKey   string          `json:"month_key"`
	MonthLabel string          `json:"month_label"`
	Dates      []TrainingDate  `json:"dates"`
	Rows       []AttendanceRow `json:"rows"`
	RosterSize int             `json:"roster_size"`
}
