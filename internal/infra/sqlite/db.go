// Package sqlite provides SQLite-based persistent storage for Mindscape.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// User-scheduled break reminders
		`CREATE TABLE IF NOT EXISTS break_schedules (
			id                   TEXT PRIMARY KEY,
			break_time           TEXT NOT NULL,
			is_active            BOOLEAN NOT NULL DEFAULT 1,
			do_not_disturb_start TEXT NOT NULL DEFAULT '',
			do_not_disturb_end   TEXT NOT NULL DEFAULT '',
			label                TEXT NOT NULL DEFAULT '',
			created_at           INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_time ON break_schedules(break_time)`,

		// Completed mindful activities
		`CREATE TABLE IF NOT EXISTS activity_completions (
			id            TEXT PRIMARY KEY,
			activity_id   TEXT NOT NULL,
			reward_earned TEXT NOT NULL DEFAULT '',
			completed_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_at ON activity_completions(completed_at)`,

		// Earned city inventory
		`CREATE TABLE IF NOT EXISTS city_items (
			id         TEXT PRIMARY KEY,
			item_name  TEXT NOT NULL,
			item_type  TEXT NOT NULL,
			rarity     TEXT NOT NULL,
			is_placed  BOOLEAN NOT NULL DEFAULT 0,
			position_x REAL NOT NULL DEFAULT 0,
			position_y REAL NOT NULL DEFAULT 0,
			position_z REAL NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_city_placed ON city_items(is_placed)`,

		// Aggregate stats (single row, id=1)
		`CREATE TABLE IF NOT EXISTS stats (
			id                    INTEGER PRIMARY KEY CHECK (id = 1),
			streak_count          INTEGER NOT NULL DEFAULT 0,
			total_breaks          INTEGER NOT NULL DEFAULT 0,
			rare_items_count      INTEGER NOT NULL DEFAULT 0,
			legendary_items_count INTEGER NOT NULL DEFAULT 0,
			last_activity_date    TEXT NOT NULL DEFAULT ''
		)`,

		// Daily reward claims, one per date per type
		`CREATE TABLE IF NOT EXISTS daily_rewards (
			id            TEXT PRIMARY KEY,
			reward_date   TEXT NOT NULL,
			reward_type   TEXT NOT NULL,
			reward_item   TEXT NOT NULL DEFAULT '',
			reward_rarity TEXT NOT NULL DEFAULT '',
			created_at    INTEGER NOT NULL,
			UNIQUE(reward_date, reward_type)
		)`,

		// User settings (single row, id=1)
		`CREATE TABLE IF NOT EXISTS user_settings (
			id                     INTEGER PRIMARY KEY CHECK (id = 1),
			notifications_enabled  BOOLEAN NOT NULL DEFAULT 1,
			music_enabled          BOOLEAN NOT NULL DEFAULT 1,
			voice_guidance_enabled BOOLEAN NOT NULL DEFAULT 0,
			volume                 INTEGER NOT NULL DEFAULT 70
		)`,

		// In-app notification log (fallback channel)
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			tag        TEXT NOT NULL DEFAULT '',
			actions    TEXT NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_created ON notifications(created_at)`,

		// Offline completion outbox (at-least-once)
		`CREATE TABLE IF NOT EXISTS pending_completions (
			id          TEXT PRIMARY KEY,
			activity_id TEXT NOT NULL,
			item_name   TEXT NOT NULL,
			item_type   TEXT NOT NULL,
			rarity      TEXT NOT NULL,
			queued_at   INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// unixTime converts a stored unix timestamp back to time.Time.
func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// localDate formats a time as the local calendar date.
func localDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// dayBounds returns the [start, end) unix range of t's local calendar day.
func dayBounds(t time.Time) (int64, int64) {
	y, m, day := t.Date()
	start := time.Date(y, m, day, 0, 0, 0, 0, t.Location())
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}
