package gorm

import "time"

// PresenceRecord is one confirmed check-in. Rows are immutable once written.
type PresenceRecord struct {
	ID                 string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name               string    `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Timestamp          int64     `gorm:"column:timestamp;not null" json:"timestamp"`
	Latitude           float64   `gorm:"column:latitude;not null" json:"latitude"`
	Longitude          float64   `gorm:"column:longitude;not null" json:"longitude"`
	DistanceFromCenter float64   `gorm:"column:distance_from_center;not null" json:"distanceFromCenter"`
	IsSunday           bool      `gorm:"column:is_sunday;not null;default:false" json:"isSunday"`
	Status             string    `gorm:"column:status;type:varchar(16);not null" json:"status"`
	DateString         string    `gorm:"column:date_string;type:varchar(10);not null" json:"dateString"`
	TimeString         string    `gorm:"column:time_string;type:varchar(5);not null" json:"timeString"`
	DayOfWeek          string    `gorm:"column:day_of_week;type:varchar(20);not null" json:"dayOfWeek"`
	MonthKey           string    `gorm:"column:month_key;type:varchar(7);not null;index" json:"monthKey"`
	AdminOverride      bool      `gorm:"column:admin_override;not null;default:false" json:"adminOverride"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime;index" json:"-"`
}

// TableName specifies the table name for GORM
func (PresenceRecord) TableName() string {
	return "presence_records"
}
