package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cross-country/runflow/internal/common"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/constants"
	"cross-country/runflow/internal/db/repositories"
	"cross-country/runflow/internal/logging"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/models/dtos"
	gormModels "cross-country/runflow/internal/models/gorm"
)

const matrixCacheTTL = 10 * time.Minute

var monthNames = [...]string{"", "Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}

// PresenceRecordStore is the append-only record storage
type PresenceRecordStore interface {
	Create(ctx context.Context, rec *gormModels.PresenceRecord) error
	ListByMonth(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error)
	ListNewestFirst(ctx context.Context) ([]gormModels.PresenceRecord, error)
}

// PresenceStatsStore answers aggregate questions about stored records
type PresenceStatsStore interface {
	DistinctMonthKeys(ctx context.Context) ([]string, error)
	CountByMonth(ctx context.Context) ([]repositories.MonthCount, error)
}

// BuildMatrix derives the monthly grid: one row per roster athlete, one column
// per training date. Records match a roster name by case-insensitive equality,
// so roster names that differ only in case share the same marks.
func BuildMatrix(roster []string, records []gormModels.PresenceRecord, monthKey string, policy config.TrainingConfig) (*dtos.AttendanceMatrix, error) {
	dates, err := common.TrainingDates(monthKey, policy.AllowedDays, policy.Location())
	if err != nil {
		return nil, err
	}

	// lower-cased name -> set of dd/mm/yyyy strings
	seen := make(map[string]map[string]bool)
	for _, r := range records {
		if r.MonthKey != monthKey {
			continue
		}
		key := strings.ToLower(r.Name)
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		seen[key][r.DateString] = true
	}

	columns := make([]dtos.TrainingDate, len(dates))
	for i, d := range dates {
		columns[i] = dtos.TrainingDate{
			Date:         common.FormatDate(d),
			Weekday:      int(d.Weekday()),
			DayName:      common.DayName(d.Weekday()),
			ShortDayName: common.ShortDayName(d.Weekday()),
		}
	}

	rows := make([]dtos.AttendanceRow, 0, len(roster))
	for _, name := range roster {
		row := dtos.AttendanceRow{Name: name, Presences: map[string]bool{}}
		marks := seen[strings.ToLower(name)]
		for _, col := range columns {
			if marks[col.Date] {
				row.Presences[col.Date] = true
				row.Total++
			}
		}
		rows = append(rows, row)
	}

	// Collator holds scratch buffers, so one per call
	coll := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(rows, func(i, j int) bool {
		return coll.CompareString(rows[i].Name, rows[j].Name) < 0
	})

	return &dtos.AttendanceMatrix{
		MonthKey:   monthKey,
		MonthLabel: MonthLabel(monthKey),
		Dates:      columns,
		Rows:       rows,
		RosterSize: len(roster),
	}, nil
}

// MonthLabel renders "2025-01" as "Janeiro de 2025"
func MonthLabel(monthKey string) string {
	year, month, err := common.ParseMonthKey(monthKey)
	if err != nil {
		return monthKey
	}
	return fmt.Sprintf("%s de %d", monthNames[month], year)
}

// AttendanceService serves monthly matrices with a per-month cache
type AttendanceService struct {
	records PresenceRecordStore
	stats   PresenceStatsStore
	roster  *RosterService
	policy  config.TrainingConfig
	clock   *common.TrainingClock
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry

	group singleflight.Group

	// generation retires cached grids built before an insert
	genMu      sync.Mutex
	generation map[string]uint64
}

func NewAttendanceService(
	records PresenceRecordStore,
	stats PresenceStatsStore,
	roster *RosterService,
	policy config.TrainingConfig,
	clock *common.TrainingClock,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *AttendanceService {
	return &AttendanceService{
		records:    records,
		stats:      stats,
		roster:     roster,
		policy:     policy,
		clock:      clock,
		cache:      cache,
		metrics:    metricsReg,
		generation: make(map[string]uint64),
	}
}

// cachedMatrix tags a cached grid with the generation it was built from.
// Entries from an older generation are treated as misses.
type cachedMatrix struct {
	Generation uint64                 `json:"generation"`
	Matrix     *dtos.AttendanceMatrix `json:"matrix"`
}

// Matrix returns the grid for monthKey, building it at most once per cache lifetime
func (s *AttendanceService) Matrix(ctx context.Context, monthKey string) (*dtos.AttendanceMatrix, error) {
	if _, _, err := common.ParseMonthKey(monthKey); err != nil {
		return nil, err
	}

	cacheKey := constants.CachePrefixMatrix.Key(monthKey)
	var cached cachedMatrix
	if s.cache.Get(cacheKey, &cached) && cached.Matrix != nil && cached.Generation == s.currentGeneration(monthKey) {
		s.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixMatrix)).Inc()
		return cached.Matrix, nil
	}
	s.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixMatrix)).Inc()

	// Waiters share this build, so one caller going away must not fail the rest.
	buildCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(monthKey, func() (interface{}, error) {
		gen := s.currentGeneration(monthKey)

		records, err := s.records.ListByMonth(buildCtx, monthKey)
		if err != nil {
			return nil, err
		}
		matrix, err := BuildMatrix(s.roster.Names(), records, monthKey, s.policy)
		if err != nil {
			return nil, err
		}
		s.metrics.AttendanceMatrixBuildsTotal.Inc()

		s.cache.Set(cacheKey, cachedMatrix{Generation: gen, Matrix: matrix}, matrixCacheTTL)
		return matrix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dtos.AttendanceMatrix), nil
}

// Invalidate drops the cached grid after a new record lands in monthKey.
// The generation bump alone is enough to retire an entry written concurrently.
func (s *AttendanceService) Invalidate(monthKey string) {
	s.genMu.Lock()
	s.generation[monthKey]++
	s.genMu.Unlock()

	s.group.Forget(monthKey)
	s.cache.Delete(constants.CachePrefixMatrix.Key(monthKey))
}

func (s *AttendanceService) currentGeneration(monthKey string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generation[monthKey]
}

// Records lists the raw records of one month
func (s *AttendanceService) Records(ctx context.Context, monthKey string) ([]gormModels.PresenceRecord, error) {
	if _, _, err := common.ParseMonthKey(monthKey); err != nil {
		return nil, err
	}
	return s.records.ListByMonth(ctx, monthKey)
}

// CurrentMonth is the month key of "now" in the training timezone
func (s *AttendanceService) CurrentMonth() string {
	return common.MonthKey(s.clock.Now())
}

// AvailableMonths lists every month with records plus the current month, newest first
func (s *AttendanceService) AvailableMonths(ctx context.Context) (*dtos.MonthsResponse, error) {
	counts, err := s.stats.CountByMonth(ctx)
	if err != nil {
		return nil, err
	}

	current := s.CurrentMonth()
	byKey := map[string]int{current: 0}
	for _, c := range counts {
		byKey[c.MonthKey] = c.Records
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	months := make([]dtos.MonthKey, len(keys))
	for i, k := range keys {
		months[i] = dtos.MonthKey{Key: k, Label: MonthLabel(k), Records: byKey[k]}
	}

	logging.Debug("Available months computed", "count", len(months), "current", current)
	return &dtos.MonthsResponse{Selected: current, Months: months}, nil
}

// MonthKeys lists the months that have records, newest first
func (s *AttendanceService) MonthKeys(ctx context.Context) ([]string, error) {
	return s.stats.DistinctMonthKeys(ctx)
}
