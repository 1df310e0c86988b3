package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cross-country/runflow/internal/constants"
)

type MonthCount struct {
	MonthKey string `db:"month_key"`
	Records  int    `db:"records"`
}

// PresenceStatsRepo runs read-only aggregate queries through sqlx.
type PresenceStatsRepo struct {
	db *sqlx.DB
}

func NewPresenceStatsRepo(db *sqlx.DB) *PresenceStatsRepo {
	return &PresenceStatsRepo{db: db}
}

// DistinctMonthKeys lists each month key that has records, newest first.
func (r *PresenceStatsRepo) DistinctMonthKeys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, constants.DistinctRecordMonthKeys); err != nil {
		return nil, fmt.Errorf("failed to query month keys: %w", err)
	}
	return keys, nil
}

func (r *PresenceStatsRepo) CountByMonth(ctx context.Context) ([]MonthCount, error) {
	var counts []MonthCount
	if err := r.db.SelectContext(ctx, &counts, constants.CountRecordsByMonth); err != nil {
		return nil, fmt.Errorf("failed to query month counts: %w", err)
	}
	return counts, nil
}

func (r *PresenceStatsRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
