package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/db/repositories"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&gormModels.PresenceRecord{}, &gormModels.MirrorSyncHistory{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestMetrics() *metrics.MetricsRegistry {
	return metrics.NewMetricsRegistry(prometheus.NewRegistry())
}

func fixedClock(t *testing.T, at time.Time) *common.TrainingClock {
	return common.NewTrainingClock(saoPaulo(t), func() time.Time { return at })
}

// Mock PresenceRecordStore
type mockRecordStore struct {
	createFunc          func(ctx context.Context, rec *gormModels.PresenceRecord) error
	listByMonthFunc     func(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error)
	listNewestFirstFunc func(ctx context.Context) ([]gormModels.PresenceRecord, error)
}

func (m *mockRecordStore) Create(ctx context.Context, rec *gormModels.PresenceRecord) error {
	return m.createFunc(ctx, rec)
}

func (m *mockRecordStore) ListByMonth(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error) {
	return m.listByMonthFunc(ctx, monthKey)
}

func (m *mockRecordStore) ListNewestFirst(ctx context.Context) ([]gormModels.PresenceRecord, error) {
	return m.listNewestFirstFunc(ctx)
}

// Mock PresenceStatsStore
type mockStatsStore struct {
	countByMonthFunc func(ctx context.Context) ([]repositories.MonthCount, error)
}

func (m *mockStatsStore) DistinctMonthKeys(ctx context.Context) ([]string, error) {
	counts, err := m.countByMonthFunc(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(counts))
	for i, c := range counts {
		keys[i] = c.MonthKey
	}
	return keys, nil
}

func (m *mockStatsStore) CountByMonth(ctx context.Context) ([]repositories.MonthCount, error) {
	return m.countByMonthFunc(ctx)
}

// Mock SheetsClient
type mockSheets struct {
	enabled        bool
	pushFunc       func(ctx context.Context, records []gormModels.PresenceRecord) error
	fetchTableFunc func(ctx context.Context) (*dtos.SheetFrequencyTable, error)
}

func (m *mockSheets) Enabled() bool { return m.enabled }

func (m *mockSheets) PushRecords(ctx context.Context, records []gormModels.PresenceRecord) error {
	return m.pushFunc(ctx, records)
}

func (m *mockSheets) FetchFrequencyTable(ctx context.Context) (*dtos.SheetFrequencyTable, error) {
	return m.fetchTableFunc(ctx)
}

// Mock MirrorQueue
type mockQueue struct {
	enqueueFunc func(ctx context.Context, req *common.MirrorRequest) error
}

func (m *mockQueue) Enqueue(ctx context.Context, req *common.MirrorRequest) error {
	return m.enqueueFunc(ctx, req)
}

func (m *mockQueue) Dequeue(context.Context, string, time.Duration) (*common.MirrorRequest, string, error) {
	return nil, "", nil
}

func (m *mockQueue) Ack(context.Context, string) error { return nil }

func (m *mockQueue) Len(context.Context) (int64, error) { return 0, nil }
