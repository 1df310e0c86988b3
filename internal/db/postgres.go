package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"cross-country/runflow/internal/config"
)

var DB *sqlx.DB

// InitSQLX opens a sqlx handle for raw stats queries. For postgres it dials
// through lib/pq with retries; for sqlite it shares the GORM connection pool.
func InitSQLX(cfg config.DBConfig, orm *gorm.DB) (*sqlx.DB, error) {
	if cfg.Driver != "postgres" {
		return WrapGorm(orm)
	}

	var (
		conn *sqlx.DB
		err  error
	)
	for i := 0; i < 10; i++ {
		conn, err = sqlx.Connect("postgres", cfg.DSN())
		if err == nil {
			DB = conn
			return conn, nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres (sqlx): %w", err)
}

// WrapGorm exposes a GORM connection as sqlx, keeping the dialect's bind style.
func WrapGorm(orm *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := orm.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	driverName := "sqlite3"
	if orm.Dialector.Name() == "postgres" {
		driverName = "postgres"
	}

	conn := sqlx.NewDb(sqlDB, driverName)
	DB = conn
	return conn, nil
}
