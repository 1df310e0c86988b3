package repositories

import (
	"context"
	"fmt"

	"cross-country/runflow/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// PresenceRecordRepo is the append-only store of check-ins.
// It has no update or delete: records are immutable once written.
type PresenceRecordRepo struct {
	db *gormlib.DB
}

func NewPresenceRecordRepo(db *gormlib.DB) *PresenceRecordRepo {
	return &PresenceRecordRepo{db: db}
}

func (r *PresenceRecordRepo) Create(ctx context.Context, rec *gorm.PresenceRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert presence record: %w", err)
	}
	return nil
}

// ListAll returns every record in insertion order.
func (r *PresenceRecordRepo) ListAll(ctx context.Context) ([]gorm.PresenceRecord, error) {
	var records []gorm.PresenceRecord
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list presence records: %w", err)
	}
	return records, nil
}

// ListNewestFirst returns every record, most recent first (the mirror snapshot order).
func (r *PresenceRecordRepo) ListNewestFirst(ctx context.Context) ([]gorm.PresenceRecord, error) {
	var records []gorm.PresenceRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("timestamp DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list presence records: %w", err)
	}
	return records, nil
}

// ListByMonth filters on the month key frozen at creation time.
func (r *PresenceRecordRepo) ListByMonth(ctx context.Context, monthKey string) ([]gorm.PresenceRecord, error) {
	var records []gorm.PresenceRecord
	err := r.db.WithContext(ctx).
		Where("month_key = ?", monthKey).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list presence records for %s: %w", monthKey, err)
	}
	return records, nil
}

func (r *PresenceRecordRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&gorm.PresenceRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count presence records: %w", err)
	}
	return n, nil
}
