package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// CheckInDetails mirrors what the validator computed, returned on success and on radius denials.
type CheckInDetails struct {
	Distance    float64 `json:"distance"`
	IsExemptDay bool    `json:"is_exempt_day"`
	Day         string  `json:"day,omitempty"`
	Hour        string  `json:"hour,omitempty"`
}

type CheckInResponse struct {
	RecordID      string          `json:"record_id,omitempty"`
	Name          string          `json:"name,omitempty"`
	DateString    string          `json:"date_string,omitempty"`
	TimeString    string          `json:"time_string,omitempty"`
	MonthKey      string          `json:"month_key,omitempty"`
	AdminOverride bool            `json:"admin_override"`
	Kind          string          `json:"kind,omitempty"`
	Details       *CheckInDetails `json:"details,omitempty"`
}

type LoginResponse struct {
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TrainingPolicyResponse struct {
	CenterLat    float64  `json:"center_lat"`
	CenterLng    float64  `json:"center_lng"`
	RadiusMeters float64  `json:"radius_meters"`
	AllowedDays  []int    `json:"allowed_days"`
	DayNames     []string `json:"day_names"`
	StartHour    int      `json:"start_hour"`
	EndHour      int      `json:"end_hour"`
	ExemptDay    int      `json:"exempt_day"`
	Timezone     string   `json:"timezone"`
}

type RosterResponse struct {
	Athletes []string `json:"athletes"`
	Count    int      `json:"count"`
}

type MonthsResponse struct {
	Selected string     `json:"selected"`
	Months   []MonthKey `json:"months"`
}

type MonthKey struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Records int    `json:"records"`
}

type ExportLinkResponse struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MirrorTicket struct {
	ID          string    `json:"id"`
	Event       string    `json:"event"`
	RequestedAt time.Time `json:"requested_at"`
	Queued      bool      `json:"queued"`
	Error       string    `json:"error,omitempty"`
}

type MirrorResult struct {
	TicketID    string    `json:"ticket_id"`
	Event       string    `json:"event"`
	Status      string    `json:"status"`
	RecordCount int       `json:"record_count"`
	Attempts    int       `json:"attempts"`
	Error       string    `json:"error,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	FinishedAt  time.Time `json:"finished_at"`
}

type MirrorStatusResponse struct {
	Enabled       bool           `json:"enabled"`
	QueueLength   int64          `json:"queue_length"`
	LastSuccessAt *time.Time     `json:"last_success_at,omitempty"`
	Recent        []MirrorResult `json:"recent"`
}
