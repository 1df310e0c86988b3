package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/db/repositories"
	gormModels "cross-country/runflow/internal/models/gorm"
)

func presence(name, date, monthKey string) gormModels.PresenceRecord {
	return gormModels.PresenceRecord{Name: name, DateString: date, MonthKey: monthKey, Status: string(constants.RecordStatusValid)}
}

func TestBuildMatrix_EmptyMonthHasEveryAthlete(t *testing.T) {
	matrix, err := BuildMatrix(constants.DefaultRoster, nil, "2025-01", testPolicy())
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}

	if len(matrix.Rows) != len(constants.DefaultRoster) || matrix.RosterSize != len(constants.DefaultRoster) {
		t.Errorf("Expected %d rows, got %d", len(constants.DefaultRoster), len(matrix.Rows))
	}
	if len(matrix.Dates) != 13 {
		t.Errorf("Expected 13 training dates in January 2025, got %d", len(matrix.Dates))
	}
	for _, row := range matrix.Rows {
		if row.Total != 0 || len(row.Presences) != 0 {
			t.Errorf("Expected empty row for %s, got %+v", row.Name, row)
		}
	}
	if matrix.MonthLabel != "Janeiro de 2025" {
		t.Errorf("Unexpected label %q", matrix.MonthLabel)
	}
}

func TestBuildMatrix_CountsDistinctTrainingDates(t *testing.T) {
	roster := []string{"Maria Aparecida Dantas", "Pedro Eliton Peres"}
	records := []gormModels.PresenceRecord{
		presence("maria aparecida dantas", "07/01/2025", "2025-01"),
		presence("Maria Aparecida Dantas", "07/01/2025", "2025-01"),
		presence("MARIA APARECIDA DANTAS", "09/01/2025", "2025-01"),
		// Wednesday is not a column
		presence("Maria Aparecida Dantas", "08/01/2025", "2025-01"),
		// month key frozen at creation wins over the date
		presence("Maria Aparecida Dantas", "12/01/2025", "2025-02"),
		// partial names do not match
		presence("Maria", "14/01/2025", "2025-01"),
	}

	matrix, err := BuildMatrix(roster, records, "2025-01", testPolicy())
	if err != nil {
		t.Fatalf("BuildMatrix failed: %v", err)
	}

	maria := matrix.Rows[0]
	if maria.Name != "Maria Aparecida Dantas" || maria.Total != 2 {
		t.Fatalf("Expected Maria with 2, got %+v", maria)
	}
	if !maria.Presences["07/01/2025"] || !maria.Presences["09/01/2025"] || len(maria.Presences) != 2 {
		t.Errorf("Unexpected presences %+v", maria.Presences)
	}
	if matrix.Rows[1].Total != 0 {
		t.Errorf("Expected Pedro with 0, got %+v", matrix.Rows[1])
	}
}

func TestBuildMatrix_OrderIndependentAndIdempotent(t *testing.T) {
	roster := []string{"Ana Carolina Gomes Torres", "Pedro Eliton Peres"}
	records := []gormModels.PresenceRecord{
		presence("Ana Carolina Gomes Torres", "02/01/2025", "2025-01"),
		presence("Pedro Eliton Peres", "05/01/2025", "2025-01"),
		presence("Ana Carolina Gomes Torres", "30/01/2025", "2025-01"),
	}
	reversed := []gormModels.PresenceRecord{records[2], records[1], records[0]}

	a, _ := BuildMatrix(roster, records, "2025-01", testPolicy())
	b, _ := BuildMatrix(roster, reversed, "2025-01", testPolicy())
	c, _ := BuildMatrix(roster, records, "2025-01", testPolicy())

	if !reflect.DeepEqual(a, b) {
		t.Error("Matrix depends on record order")
	}
	if !reflect.DeepEqual(a, c) {
		t.Error("Matrix is not idempotent")
	}
}

func TestBuildMatrix_SortsWithPortugueseCollation(t *testing.T) {
	roster := []string{"Zé Carlos", "Érica Lima", "Ana Souza", "Eduardo Reis"}

	matrix, _ := BuildMatrix(roster, nil, "2025-01", testPolicy())

	var got []string
	for _, row := range matrix.Rows {
		got = append(got, row.Name)
	}
	want := []string{"Ana Souza", "Eduardo Reis", "Érica Lima", "Zé Carlos"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestBuildMatrix_NamesDifferingOnlyInCaseShareMarks(t *testing.T) {
	// Known limitation: the lower-cased index cannot tell these apart
	roster := []string{"Ana Silva", "ANA SILVA"}
	records := []gormModels.PresenceRecord{presence("Ana Silva", "07/01/2025", "2025-01")}

	matrix, _ := BuildMatrix(roster, records, "2025-01", testPolicy())
	for _, row := range matrix.Rows {
		if row.Total != 1 {
			t.Errorf("Expected both rows marked, got %+v", row)
		}
	}
}

func TestBuildMatrix_InvalidMonth(t *testing.T) {
	if _, err := BuildMatrix(constants.DefaultRoster, nil, "2025-13", testPolicy()); err == nil {
		t.Error("Expected error for invalid month key")
	}
}

func TestAttendanceService_CachesUntilInvalidated(t *testing.T) {
	calls := 0
	store := &mockRecordStore{
		listByMonthFunc: func(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error) {
			calls++
			return []gormModels.PresenceRecord{presence("Pedro Eliton Peres", "07/01/2025", monthKey)}, nil
		},
	}
	clock := fixedClock(t, time.Date(2025, 1, 7, 7, 0, 0, 0, saoPaulo(t)))
	svc := NewAttendanceService(store, &mockStatsStore{}, NewRosterService(constants.DefaultRoster),
		testPolicy(), clock, common.NewCacheService(600, 1200), newTestMetrics())
	ctx := context.Background()

	first, err := svc.Matrix(ctx, "2025-01")
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	second, _ := svc.Matrix(ctx, "2025-01")
	if calls != 1 {
		t.Errorf("Expected one store read, got %d", calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Cached matrix differs from built matrix")
	}

	svc.Invalidate("2025-01")
	_, _ = svc.Matrix(ctx, "2025-01")
	if calls != 2 {
		t.Errorf("Expected rebuild after invalidation, got %d reads", calls)
	}
}

func TestAttendanceService_AvailableMonthsIncludesCurrent(t *testing.T) {
	stats := &mockStatsStore{
		countByMonthFunc: func(ctx context.Context) ([]repositories.MonthCount, error) {
			return []repositories.MonthCount{{MonthKey: "2025-03", Records: 4}, {MonthKey: "2024-12", Records: 9}}, nil
		},
	}
	clock := fixedClock(t, time.Date(2025, 1, 15, 10, 0, 0, 0, saoPaulo(t)))
	svc := NewAttendanceService(&mockRecordStore{}, stats, NewRosterService(constants.DefaultRoster),
		testPolicy(), clock, common.NewCacheService(600, 1200), newTestMetrics())

	resp, err := svc.AvailableMonths(context.Background())
	if err != nil {
		t.Fatalf("AvailableMonths failed: %v", err)
	}

	var keys []string
	for _, m := range resp.Months {
		keys = append(keys, m.Key)
	}
	if !reflect.DeepEqual(keys, []string{"2025-03", "2025-01", "2024-12"}) {
		t.Errorf("Unexpected months %v", keys)
	}
	if resp.Selected != "2025-01" || resp.Months[1].Records != 0 || resp.Months[2].Records != 9 {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestAttendanceService_WithSQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPresenceRecordRepo(db)
	ctx := context.Background()

	_ = repo.Create(ctx, &gormModels.PresenceRecord{ID: "a", Name: "pedro eliton peres", DateString: "07/01/2025", MonthKey: "2025-01", Status: "valid"})
	_ = repo.Create(ctx, &gormModels.PresenceRecord{ID: "b", Name: "Pedro Eliton Peres", DateString: "04/02/2025", MonthKey: "2025-02", Status: "valid"})

	clock := fixedClock(t, time.Date(2025, 2, 4, 7, 0, 0, 0, saoPaulo(t)))
	svc := NewAttendanceService(repo, &mockStatsStore{}, NewRosterService([]string{"Pedro Eliton Peres"}),
		testPolicy(), clock, common.NewCacheService(600, 1200), newTestMetrics())

	matrix, err := svc.Matrix(ctx, "2025-01")
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if matrix.Rows[0].Total != 1 {
		t.Errorf("Expected 1 presence in January, got %+v", matrix.Rows[0])
	}

	records, err := svc.Records(ctx, "2025-02")
	if err != nil || len(records) != 1 || records[0].ID != "b" {
		t.Errorf("Unexpected February records %+v (%v)", records, err)
	}
}

// hookCache runs beforeSet once, right before the first write reaches the inner cache
type hookCache struct {
	common.CacheInterface
	beforeSet func()
}

func (c *hookCache) Set(key string, value interface{}, duration time.Duration) {
	if c.beforeSet != nil {
		hook := c.beforeSet
		c.beforeSet = nil
		hook()
	}
	c.CacheInterface.Set(key, value, duration)
}

func TestAttendanceService_InsertDuringBuildIsNotHiddenByCache(t *testing.T) {
	var stored []gormModels.PresenceRecord
	store := &mockRecordStore{
		listByMonthFunc: func(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error) {
			return append([]gormModels.PresenceRecord(nil), stored...), nil
		},
	}
	cache := &hookCache{CacheInterface: common.NewCacheService(600, 1200)}
	clock := fixedClock(t, time.Date(2025, 1, 7, 7, 0, 0, 0, saoPaulo(t)))
	svc := NewAttendanceService(store, &mockStatsStore{}, NewRosterService([]string{"Pedro Eliton Peres"}),
		testPolicy(), clock, cache, newTestMetrics())
	ctx := context.Background()

	// A check-in lands after the records were read but before the grid is cached
	cache.beforeSet = func() {
		stored = append(stored, presence("Pedro Eliton Peres", "07/01/2025", "2025-01"))
		svc.Invalidate("2025-01")
	}

	first, err := svc.Matrix(ctx, "2025-01")
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if first.Rows[0].Total != 0 {
		t.Fatalf("Expected the build to predate the insert, got %+v", first.Rows[0])
	}

	second, err := svc.Matrix(ctx, "2025-01")
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if second.Rows[0].Total != 1 {
		t.Errorf("Expected Pedro total 1 after insert, got %d", second.Rows[0].Total)
	}
}

func TestAttendanceService_BuildIgnoresCallerCancellation(t *testing.T) {
	store := &mockRecordStore{
		listByMonthFunc: func(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []gormModels.PresenceRecord{presence("Pedro Eliton Peres", "07/01/2025", monthKey)}, nil
		},
	}
	clock := fixedClock(t, time.Date(2025, 1, 7, 7, 0, 0, 0, saoPaulo(t)))
	svc := NewAttendanceService(store, &mockStatsStore{}, NewRosterService([]string{"Pedro Eliton Peres"}),
		testPolicy(), clock, common.NewCacheService(600, 1200), newTestMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matrix, err := svc.Matrix(ctx, "2025-01")
	if err != nil {
		t.Fatalf("Expected shared build to survive a cancelled caller, got %v", err)
	}
	if matrix.Rows[0].Total != 1 {
		t.Errorf("Expected Pedro total 1, got %+v", matrix.Rows[0])
	}
}
