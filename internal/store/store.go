// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists allocation plans in SQLite (default) or Postgres.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/herdmate/pkg/types"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	dbFile     = "herdmate.db"
	defaultDir = "plans"

	// timeFormat has fixed width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Store manages the plan database.
type Store struct {
	db     *sql.DB
	driver string
	dir    string
}

// Open opens or creates the plan store. For sqlite3 the database lives at
// dir/herdmate.db; for pgx cfg.DSN is required and dir only receives
// exports. The schema is created if it does not exist.
func Open(ctx context.Context, cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating plan directory: %w", err)
		}
		dsn = filepath.Join(dir, dbFile) + "?_journal_mode=WAL&_foreign_keys=on"
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("store driver pgx requires a DSN")
		}
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	s := &Store{db: db, driver: driver, dir: dir}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory exports are written to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			threshold_percent DOUBLE PRECISION NOT NULL,
			allocated INTEGER NOT NULL,
			unallocated INTEGER NOT NULL,
			plan TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS allocations (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			cow_id TEXT NOT NULL,
			cow_group TEXT,
			bull_id TEXT NOT NULL,
			semen_type TEXT NOT NULL,
			choice_rank INTEGER NOT NULL,
			score DOUBLE PRECISION,
			coefficient DOUBLE PRECISION,
			verdict TEXT,
			mode TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_allocations_cow_id ON allocations(cow_id)`,
		`CREATE TABLE IF NOT EXISTS bull_usage (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			bull_id TEXT NOT NULL,
			semen_type TEXT NOT NULL,
			original INTEGER NOT NULL,
			used INTEGER NOT NULL,
			remaining INTEGER NOT NULL,
			PRIMARY KEY (run_id, bull_id, semen_type)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Rebind rewrites ? placeholders to $n for drivers that need them.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) q(query string) string {
	return Rebind(s.driver, query)
}

// SaveRun persists plan in one transaction.
func (s *Store) SaveRun(ctx context.Context, plan *types.AllocationPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(
		`INSERT INTO runs (id, created_at, threshold_percent, allocated, unallocated, plan)
		VALUES (?, ?, ?, ?, ?, ?)`),
		plan.RunID, plan.CreatedAt.UTC().Format(timeFormat), plan.Constraints.ThresholdPercent,
		len(plan.Results), len(plan.Unallocated), string(data),
	); err != nil {
		return fmt.Errorf("inserting run %s: %w", plan.RunID, err)
	}

	insAlloc, err := tx.PrepareContext(ctx, s.q(
		`INSERT INTO allocations (run_id, seq, cow_id, cow_group, bull_id, semen_type, choice_rank, score, coefficient, verdict, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing allocation insert: %w", err)
	}
	defer insAlloc.Close()
	for i, r := range plan.Results {
		if _, err := insAlloc.ExecContext(ctx,
			plan.RunID, i, r.CowID, r.Group, r.BullID, string(r.SemenType), r.ChoiceRank,
			r.Score, r.Coefficient, string(r.Verdict), string(r.Mode),
		); err != nil {
			return fmt.Errorf("inserting allocation %s/%s: %w", r.CowID, r.SemenType, err)
		}
	}

	insUsage, err := tx.PrepareContext(ctx, s.q(
		`INSERT INTO bull_usage (run_id, bull_id, semen_type, original, used, remaining)
		VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("preparing usage insert: %w", err)
	}
	defer insUsage.Close()
	for _, b := range plan.Bulls {
		if _, err := insUsage.ExecContext(ctx,
			plan.RunID, b.BullID, string(b.SemenType), b.Original, b.Used, b.Remaining,
		); err != nil {
			return fmt.Errorf("inserting usage for %s: %w", b.BullID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID               string    `json:"id" yaml:"id"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
	ThresholdPercent float64   `json:"threshold_percent" yaml:"threshold_percent"`
	Allocated        int       `json:"allocated" yaml:"allocated"`
	Unallocated      int       `json:"unallocated" yaml:"unallocated"`
}

// ListRuns returns stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, threshold_percent, allocated, unallocated FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.ID, &created, &r.ThresholdPercent, &r.Allocated, &r.Unallocated); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of run %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadRun returns the stored plan for runID.
func (s *Store) LoadRun(ctx context.Context, runID string) (*types.AllocationPlan, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT plan FROM runs WHERE id = ?`), runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	var plan types.AllocationPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", runID, err)
	}
	return &plan, nil
}

// CowHistory returns every stored allocation of cowID across runs,
// newest run first.
func (s *Store) CowHistory(ctx context.Context, cowID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.q(
		`SELECT a.run_id, r.created_at, a.bull_id, a.semen_type, a.choice_rank, a.coefficient, a.mode
		FROM allocations a JOIN runs r ON r.id = a.run_id
		WHERE a.cow_id = ?
		ORDER BY r.created_at DESC, a.seq`), cowID)
	if err != nil {
		return nil, fmt.Errorf("querying history of %s: %w", cowID, err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var created, semen, mode string
		if err := rows.Scan(&h.RunID, &created, &h.BullID, &semen, &h.ChoiceRank, &h.Coefficient, &mode); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		h.SemenType, h.Mode = types.SemenType(semen), types.AllocationMode(mode)
		if h.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at of run %s: %w", h.RunID, err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HistoryEntry is one past allocation of a cow.
type HistoryEntry struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	CreatedAt   time.Time            `json:"created_at" yaml:"created_at"`
	BullID      string               `json:"bull_id" yaml:"bull_id"`
	SemenType   types.SemenType      `json:"semen_type" yaml:"semen_type"`
	ChoiceRank  int                  `json:"choice_rank" yaml:"choice_rank"`
	Coefficient float64              `json:"coefficient" yaml:"coefficient"`
	Mode        types.AllocationMode `json:"mode" yaml:"mode"`
}

// DeleteRun removes a run and its rows.
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM allocations WHERE run_id = ?`,
		`DELETE FROM bull_usage WHERE run_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, s.q(stmt), runID); err != nil {
			return fmt.Errorf("deleting run %s: %w", runID, err)
		}
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM runs WHERE id = ?`), runID)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return tx.Commit()
}
