package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/folio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// timeLayout is fixed-width so stored timestamps compare correctly as text
const timeLayout = "2006-01-02T15:04:05.000000Z"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if driverName == "sqlite" {
		// One writer at a time; concurrent reorder writes queue on the pool
		// instead of failing with SQLITE_BUSY / table locked.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		theme TEXT NOT NULL DEFAULT 'midnight',
		accent_color TEXT NOT NULL DEFAULT '#7C3AED',
		is_pro INTEGER NOT NULL DEFAULT 0,
		total_views INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT 'link',
		is_active INTEGER NOT NULL DEFAULT 1,
		position INTEGER NOT NULL DEFAULT 0,
		click_count INTEGER NOT NULL DEFAULT 0,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY(profile_id) REFERENCES profiles(id)
	);
	CREATE INDEX IF NOT EXISTS idx_links_profile_position ON links(profile_id, position);

	CREATE TABLE IF NOT EXISTS page_views (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		viewed_at TEXT NOT NULL,
		device TEXT NOT NULL,
		referrer TEXT NOT NULL DEFAULT 'direct'
	);
	CREATE INDEX IF NOT EXISTS idx_page_views_profile_time ON page_views(profile_id, viewed_at);

	CREATE TABLE IF NOT EXISTS link_clicks (
		id TEXT PRIMARY KEY,
		link_id TEXT NOT NULL,
		profile_id TEXT NOT NULL,
		clicked_at TEXT NOT NULL,
		device TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_link_clicks_profile_time ON link_clicks(profile_id, clicked_at);
	`
	_, err := db.Exec(query)
	return err
}

// Ping checks the connection is still usable
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure interface compliance
var _ ports.Repository = (*SQLiteRepository)(nil)
