// Package persistence provides SQLite-based storage of simulation runs: the
// population, per-round statistics and coalition sizes, for later comparison.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/bubbles/internal/agents"
	"github.com/talgya/bubbles/internal/engine"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		agents INTEGER NOT NULL,
		rounds INTEGER NOT NULL,
		sweeps INTEGER NOT NULL,
		exposure_policy TEXT NOT NULL,
		selection_policy TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS households (
		run_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		social_eagerness REAL NOT NULL,
		risk_factor REAL NOT NULL,
		exposure_chance REAL NOT NULL,
		member_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE TABLE IF NOT EXISTS rounds (
		run_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		decay REAL NOT NULL,
		infection REAL NOT NULL,
		moves INTEGER NOT NULL,
		active INTEGER NOT NULL,
		largest INTEGER NOT NULL,
		singletons INTEGER NOT NULL,
		sweep_moves_json TEXT NOT NULL,
		PRIMARY KEY (run_id, round)
	);

	CREATE TABLE IF NOT EXISTS coalition_sizes (
		run_id TEXT NOT NULL,
		round INTEGER NOT NULL,
		coalition_id INTEGER NOT NULL,
		size INTEGER NOT NULL,
		PRIMARY KEY (run_id, round, coalition_id)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Run describes a stored simulation run.
type Run struct {
	ID              string `db:"id" json:"id"`
	CreatedAt       string `db:"created_at" json:"created_at"`
	Seed            int64  `db:"seed" json:"seed"`
	Agents          int    `db:"agents" json:"agents"`
	Rounds          int    `db:"rounds" json:"rounds"`
	Sweeps          int    `db:"sweeps" json:"sweeps"`
	ExposurePolicy  string `db:"exposure_policy" json:"exposure_policy"`
	SelectionPolicy string `db:"selection_policy" json:"selection_policy"`
	ConfigJSON      string `db:"config_json" json:"-"`
}

// Round is a stored per-round summary.
type Round struct {
	Round          int     `db:"round" json:"round"`
	Decay          float64 `db:"decay" json:"decay"`
	Infection      float64 `db:"infection" json:"infection"`
	Moves          int     `db:"moves" json:"moves"`
	Active         int     `db:"active" json:"active"`
	Largest        int     `db:"largest" json:"largest"`
	Singletons     int     `db:"singletons" json:"singletons"`
	SweepMovesJSON string  `db:"sweep_moves_json" json:"-"`
}

// CreateRun records a new run and returns its generated ID. settings is
// stored as JSON alongside the run.
func (db *DB) CreateRun(opts engine.Options, settings any) (string, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}

	id := uuid.NewString()
	_, err = db.conn.Exec(`INSERT INTO runs
		(id, created_at, seed, agents, rounds, sweeps, exposure_policy, selection_policy, config_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(timeLayout), opts.Seed, opts.Agents, opts.Rounds,
		opts.World.Sweeps, opts.World.Exposure.String(), opts.World.Selection.String(),
		string(settingsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveHouseholds writes a run's population.
func (db *DB) SaveHouseholds(runID string, households []*agents.Household) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO households
		(run_id, id, social_eagerness, risk_factor, exposure_chance, member_count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range households {
		_, err := stmt.Exec(runID, int64(h.ID()), h.SocialEagerness(), h.RiskFactor(), h.ExposureChance(), h.MemberCount())
		if err != nil {
			return fmt.Errorf("insert household %d: %w", h.ID(), err)
		}
	}

	return tx.Commit()
}

// SaveSnapshot writes one round's statistics and coalition sizes.
func (db *DB) SaveSnapshot(runID string, snap engine.Snapshot) error {
	sweepJSON, err := json.Marshal(snap.Stats.SweepMoves)
	if err != nil {
		return fmt.Errorf("marshal sweep moves: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO rounds
		(run_id, round, decay, infection, moves, active, largest, singletons, sweep_moves_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, snap.Round, snap.Stats.Conditions.Decay, snap.Stats.Conditions.Infection,
		snap.Stats.Moves, snap.ActiveCount(), snap.Largest(), snap.Singletons(), string(sweepJSON),
	)
	if err != nil {
		return fmt.Errorf("insert round %d: %w", snap.Round, err)
	}

	for _, c := range snap.Active {
		_, err := tx.Exec(
			"INSERT INTO coalition_sizes (run_id, round, coalition_id, size) VALUES (?, ?, ?, ?)",
			runID, snap.Round, int64(c.ID), c.Size,
		)
		if err != nil {
			return fmt.Errorf("insert coalition %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// SaveRun stores a finished run in one call.
func (db *DB) SaveRun(opts engine.Options, settings any, households []*agents.Household, snaps []engine.Snapshot) (string, error) {
	slog.Info("saving run", "households", len(households), "rounds", len(snaps))

	id, err := db.CreateRun(opts, settings)
	if err != nil {
		return "", err
	}
	if err := db.SaveHouseholds(id, households); err != nil {
		return id, fmt.Errorf("save households: %w", err)
	}
	for _, snap := range snaps {
		if err := db.SaveSnapshot(id, snap); err != nil {
			return id, fmt.Errorf("save snapshot: %w", err)
		}
	}

	slog.Info("run saved", "run_id", id)
	return id, nil
}

// GetRun retrieves one run by ID.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	return run, err
}

// RecentRuns returns the most recent N runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// Rounds returns a run's per-round statistics in round order.
func (db *DB) Rounds(runID string) ([]Round, error) {
	var rounds []Round
	err := db.conn.Select(&rounds,
		`SELECT round, decay, infection, moves, active, largest, singletons, sweep_moves_json
		 FROM rounds WHERE run_id = ? ORDER BY round`,
		runID,
	)
	return rounds, err
}

// CoalitionSizes returns the active coalition sizes of a round in coalition
// ID order, matching engine.Snapshot.Sizes.
func (db *DB) CoalitionSizes(runID string, round int) ([]int, error) {
	var sizes []int
	err := db.conn.Select(&sizes,
		"SELECT size FROM coalition_sizes WHERE run_id = ? AND round = ? ORDER BY coalition_id",
		runID, round,
	)
	return sizes, err
}
