package gorm

import "time"

// MirrorSyncHistory is one attempt to push the record snapshot to the sheet webhook
type MirrorSyncHistory struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	TicketID    string    `gorm:"column:ticket_id;type:varchar(36);index"`
	Event       string    `gorm:"column:event;type:varchar(50);not null"`
	Status      string    `gorm:"column:status;type:varchar(16);not null;index"`
	RecordCount int       `gorm:"column:record_count;not null;default:0"`
	Attempts    int       `gorm:"column:attempts;not null;default:1"`
	Error       string    `gorm:"column:error;type:text"`
	DurationMs  int64     `gorm:"column:duration_ms"`
	RequestedAt time.Time `gorm:"column:requested_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (MirrorSyncHistory) TableName() string {
	return "mirror_sync_history"
}
