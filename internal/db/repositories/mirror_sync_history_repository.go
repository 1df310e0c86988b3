package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// MirrorSyncHistoryRepo handles mirror attempt history
type MirrorSyncHistoryRepo struct {
	db *gormlib.DB
}

// NewMirrorSyncHistoryRepo creates a new mirror history repository
func NewMirrorSyncHistoryRepo(db *gormlib.DB) *MirrorSyncHistoryRepo {
	return &MirrorSyncHistoryRepo{db: db}
}

// RecordAttempt appends the outcome of one ticket
func (r *MirrorSyncHistoryRepo) RecordAttempt(ctx context.Context, entry *gorm.MirrorSyncHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Latest returns the latest attempts, newest first
func (r *MirrorSyncHistoryRepo) Latest(ctx context.Context, limit int) ([]gorm.MirrorSyncHistory, error) {
	var entries []gorm.MirrorSyncHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// LastSuccessAt retrieves the most recent successful push
// Used to decide whether a resync is due on startup
func (r *MirrorSyncHistoryRepo) LastSuccessAt(ctx context.Context) (*time.Time, error) {
	var entry gorm.MirrorSyncHistory

	err := r.db.WithContext(ctx).
		Where("status = ?", constants.MirrorStatusSuccess).
		Order("created_at DESC").
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil // No successful push yet
		}
		return nil, err
	}

	return &entry.CreatedAt, nil
}
