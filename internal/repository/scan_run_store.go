package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MorningScan/internal/domain/models"
	domrepo "MorningScan/internal/domain/repository"
	pkgch "MorningScan/pkg/clickhouse"
	applogger "MorningScan/pkg/logger"
)

const scanRunSchema = `CREATE TABLE IF NOT EXISTS %s (
    run_at DateTime,
    source LowCardinality(String),
    total_items UInt32,
    opportunities UInt32,
    strong_opportunities UInt32,
    catalyst_count UInt32,
    signals_detected UInt32,
    failed_items UInt32,
    duration_ms UInt64
) ENGINE = MergeTree()
ORDER BY run_at`

// CHScanRunStore implements ScanRunStore backed by ClickHouse.
type CHScanRunStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHScanRunStore(ch *pkgch.Client, table string) *CHScanRunStore {
	return &CHScanRunStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHScanRunStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHScanRunStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(scanRunSchema, s.table)); err != nil {
		return fmt.Errorf("init scan_runs table: %w", err)
	}
	return nil
}

func (s *CHScanRunStore) Record(ctx context.Context, run *models.ScanRun) error {
	start := time.Now()
	q := fmt.Sprintf("INSERT INTO %s (run_at, source, total_items, opportunities, strong_opportunities, catalyst_count, signals_detected, failed_items, duration_ms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		run.RunAt,
		run.Source,
		uint32(run.TotalItems),
		uint32(run.Opportunities),
		uint32(run.StrongOpportunities),
		uint32(run.CatalystCount),
		uint32(run.SignalsDetected),
		uint32(run.FailedItems),
		uint64(run.Duration/time.Millisecond),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse record_run error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("record scan run: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse record_run ok",
			applogger.String("table", s.table),
			applogger.Int("total_items", run.TotalItems),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHScanRunStore) Recent(ctx context.Context, limit int) ([]*models.ScanRun, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 30
	}
	q := fmt.Sprintf("SELECT run_at, source, total_items, opportunities, strong_opportunities, catalyst_count, signals_detected, failed_items, duration_ms FROM %s ORDER BY run_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_runs query error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent scan runs: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ScanRun, 0, limit)
	for rows.Next() {
		var (
			run                                               models.ScanRun
			total, opps, strong, catalysts, signals, failures uint32
			durationMS                                        uint64
		)
		if err := rows.Scan(&run.RunAt, &run.Source, &total, &opps, &strong,
			&catalysts, &signals, &failures, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.TotalItems = int(total)
		run.Opportunities = int(opps)
		run.StrongOpportunities = int(strong)
		run.CatalystCount = int(catalysts)
		run.SignalsDetected = int(signals)
		run.FailedItems = int(failures)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse recent_runs ok",
			applogger.String("table", s.table),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

var _ domrepo.ScanRunStore = (*CHScanRunStore)(nil)
