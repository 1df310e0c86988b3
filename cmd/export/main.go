package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"cross-country/runflow/internal/api"
	"cross-country/runflow/internal/config"
	"cross-country/runflow/internal/db"
	"cross-country/runflow/internal/metrics"
	"cross-country/runflow/internal/services"
)

// export writes the monthly attendance workbook straight from the database.
//
//	go run ./cmd/export -month 2025-01 -out ./exports
//	go run ./cmd/export -all
func main() {
	month := flag.String("month", "", "month key YYYY-MM (default: current month)")
	all := flag.Bool("all", false, "export every month that has records")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	orm, err := db.InitORM(cfg.DB)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	sqlxDB, err := db.InitSQLX(cfg.DB, orm)
	if err != nil {
		log.Fatalf("open db (sqlx): %v", err)
	}

	deps, err := api.InitDependencies(cfg, orm, sqlxDB, nil, metrics.NewMetricsRegistry(prometheus.NewRegistry()), nil)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	attendance := deps.Services.Attendance

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	months := []string{*month}
	switch {
	case *all:
		months, err = attendance.MonthKeys(ctx)
		if err != nil {
			log.Fatalf("list months: %v", err)
		}
	case *month == "":
		months = []string{attendance.CurrentMonth()}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *outDir, err)
	}
	for _, m := range months {
		path, err := exportMonth(ctx, attendance, m, *outDir)
		if err != nil {
			log.Fatalf("export %s: %v", m, err)
		}
		fmt.Println("Wrote", path)
	}
}

func exportMonth(ctx context.Context, attendance *services.AttendanceService, month, dir string) (string, error) {
	matrix, err := attendance.Matrix(ctx, month)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, services.ExportFilename(month))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := services.WriteXLSX(f, matrix); err != nil {
		return "", err
	}
	return path, f.Close()
}
