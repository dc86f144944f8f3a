// Package persistence provides SQLite-backed storage for generated region
// layouts and determinism-suite run records. The store is strictly a warm
// cache keyed by the config handshake: a hit must be byte-identical to what
// the engine would regenerate, so a renderer restart can skip recomputing
// regions it has already seen. See design doc Section 8.3.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"github.com/talgya/crossroads/internal/settlement"
)

// DB wraps a SQLite connection for layout snapshot storage.
type DB struct {
	conn *sqlx.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}

	db := &DB{conn: conn, enc: enc, dec: dec}
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
	CREATE TABLE IF NOT EXISTS region_layouts (
		handshake TEXT NOT NULL,
		region_x INTEGER NOT NULL,
		region_y INTEGER NOT NULL,
		payload BLOB NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (handshake, region_x, region_y)
	);

	CREATE TABLE IF NOT EXISTS determinism_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		handshake TEXT NOT NULL,
		runs INTEGER NOT NULL,
		overall_hash TEXT NOT NULL,
		ok INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_det_runs_handshake ON determinism_runs(handshake);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveLayout stores a region layout under the given handshake hash,
// replacing any previous snapshot for the same key.
func (db *DB) SaveLayout(handshake string, l *settlement.Layout) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	payload := db.enc.EncodeAll(raw, nil)

	_, err = db.conn.Exec(
		`INSERT OR REPLACE INTO region_layouts
		 (handshake, region_x, region_y, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		handshake, l.RegionX, l.RegionY, payload, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert layout (%d,%d): %w", l.RegionX, l.RegionY, err)
	}
	return nil
}

// LoadLayout returns the stored layout for a region, or ok=false if no
// snapshot exists for this handshake.
func (db *DB) LoadLayout(handshake string, regionX, regionY int) (*settlement.Layout, bool, error) {
	var payload []byte
	err := db.conn.Get(&payload,
		"SELECT payload FROM region_layouts WHERE handshake = ? AND region_x = ? AND region_y = ?",
		handshake, regionX, regionY,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select layout (%d,%d): %w", regionX, regionY, err)
	}

	raw, err := db.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress layout (%d,%d): %w", regionX, regionY, err)
	}
	var l settlement.Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, false, fmt.Errorf("unmarshal layout (%d,%d): %w", regionX, regionY, err)
	}
	return &l, true, nil
}

// RecordDeterminismRun appends a determinism-suite outcome.
func (db *DB) RecordDeterminismRun(handshake string, runs int, overallHash string, ok bool) error {
	okInt := 0
	if ok {
		okInt = 1
	}
	_, err := db.conn.Exec(
		`INSERT INTO determinism_runs (handshake, runs, overall_hash, ok, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		handshake, runs, overallHash, okInt, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert determinism run: %w", err)
	}
	return nil
}

// DeterminismRun is one recorded suite outcome.
type DeterminismRun struct {
	ID          int64  `db:"id"`
	Handshake   string `db:"handshake"`
	Runs        int    `db:"runs"`
	OverallHash string `db:"overall_hash"`
	OK          bool   `db:"ok"`
	CreatedAt   string `db:"created_at"`
}

// LatestDeterminismRuns returns the most recent suite outcomes for a
// handshake, newest first.
func (db *DB) LatestDeterminismRuns(handshake string, limit int) ([]DeterminismRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []DeterminismRun
	err := db.conn.Select(&runs,
		`SELECT id, handshake, runs, overall_hash, ok, created_at
		 FROM determinism_runs WHERE handshake = ?
		 ORDER BY id DESC LIMIT ?`,
		handshake, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select determinism runs: %w", err)
	}
	return runs, nil
}
