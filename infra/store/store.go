// Package store persists simulation runs in SQLite or PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/evfleet/core/model"
	corestore "github.com/kilianp07/evfleet/core/store"
)

// Config selects and configures the result store.
type Config struct {
	// Backend is "none", "sqlite" or "postgres".
	Backend string `json:"backend" yaml:"backend"`
	// DSN is the SQLite file path or the PostgreSQL connection URL.
	DSN string `json:"dsn" yaml:"dsn"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "none"
	}
	if c.Backend == "sqlite" && c.DSN == "" {
		c.DSN = "evfleet.db"
	}
}

// Validate checks the backend name and DSN.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
		return nil
	case "sqlite", "postgres":
		if c.DSN == "" {
			return fmt.Errorf("store dsn is required for %s", c.Backend)
		}
		return nil
	}
	return fmt.Errorf("unknown store backend %s", c.Backend)
}

// Open returns the configured store, or nil when the backend is "none".
func Open(cfg Config) (corestore.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "sqlite":
		return NewSQLiteStore(cfg.DSN)
	case "postgres":
		return NewPostgresStore(cfg.DSN)
	}
	return nil, fmt.Errorf("unknown store backend %s", cfg.Backend)
}

// sqlStore implements corestore.Store on database/sql. Queries are written
// with '?' placeholders and rebound for drivers using '$n'.
type sqlStore struct {
	db     *sql.DB
	dollar bool
}

const schemaRuns = `CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at BIGINT NOT NULL,
	days INTEGER NOT NULL,
	vehicles INTEGER NOT NULL,
	seed BIGINT NOT NULL,
	capacity_kwh DOUBLE PRECISION NOT NULL,
	time_step_hours DOUBLE PRECISION NOT NULL
);`

const schemaSummaries = `CREATE TABLE IF NOT EXISTS day_summaries (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	day INTEGER NOT NULL,
	ev INTEGER NOT NULL,
	initial_soc DOUBLE PRECISION NOT NULL,
	goal_kwh DOUBLE PRECISION NOT NULL,
	arrival_h DOUBLE PRECISION NOT NULL,
	departure_h DOUBLE PRECISION NOT NULL,
	final_soc DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, day, ev)
);`

func (s *sqlStore) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range []string{schemaRuns, schemaSummaries} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}
	return nil
}

func (s *sqlStore) rebind(q string) string {
	if !s.dollar {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SaveRun stores the run and its summaries in one transaction.
func (s *sqlStore) SaveRun(ctx context.Context, run model.Run, res []model.DaySummary) error {
	if run.ID == "" {
		return errors.New("save run: empty run id")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO runs
		(id, started_at, days, vehicles, seed, capacity_kwh, time_step_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.ID, run.StartedAt.UnixNano(), run.Days, run.Vehicles, run.Seed, run.CapacityKWh, run.TimeStep); err != nil {
		return fmt.Errorf("save run: insert run: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(`INSERT INTO day_summaries
		(run_id, day, ev, initial_soc, goal_kwh, arrival_h, departure_h, final_soc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("save run: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, r := range res {
		if _, err := stmt.ExecContext(ctx, run.ID, r.Day, r.EV, r.InitialSoC, r.GoalKWh,
			r.ArrivalHour, r.DepartureHour, r.FinalSoC); err != nil {
			return fmt.Errorf("save run: insert summary ev=%d day=%d: %w", r.EV, r.Day, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run: commit: %w", err)
	}
	return nil
}

// LoadRun returns the run metadata and its summaries ordered by day then EV.
func (s *sqlStore) LoadRun(ctx context.Context, runID string) (model.Run, []model.DaySummary, error) {
	var (
		run     model.Run
		started int64
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, started_at, days, vehicles, seed, capacity_kwh, time_step_hours
		FROM runs WHERE id = ?`), runID).
		Scan(&run.ID, &started, &run.Days, &run.Vehicles, &run.Seed, &run.CapacityKWh, &run.TimeStep)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, nil, fmt.Errorf("%w: %s", corestore.ErrRunNotFound, runID)
	}
	if err != nil {
		return model.Run{}, nil, fmt.Errorf("load run: %w", err)
	}
	run.StartedAt = time.Unix(0, started).UTC()

	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT day, ev, initial_soc, goal_kwh, arrival_h, departure_h, final_soc
		FROM day_summaries WHERE run_id = ? ORDER BY day, ev`), runID)
	if err != nil {
		return model.Run{}, nil, fmt.Errorf("load summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var res []model.DaySummary
	for rows.Next() {
		var r model.DaySummary
		if err := rows.Scan(&r.Day, &r.EV, &r.InitialSoC, &r.GoalKWh, &r.ArrivalHour, &r.DepartureHour, &r.FinalSoC); err != nil {
			return model.Run{}, nil, fmt.Errorf("scan summary: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return model.Run{}, nil, err
	}
	return run, res, nil
}

// Close closes the database handle.
func (s *sqlStore) Close() error {
	return s.db.Close()
}
