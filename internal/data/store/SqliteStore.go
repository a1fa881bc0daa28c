package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		stored_filename TEXT NOT NULL,
		source_path TEXT NOT NULL,
		total_pages INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS upload_groups (
		id TEXT PRIMARY KEY,
		upload_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		filename TEXT NOT NULL,
		pdf_path TEXT NOT NULL,
		pages_count INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_uploads_status ON uploads(status);
	CREATE INDEX IF NOT EXISTS idx_groups_upload ON upload_groups(upload_id);
`

// OpenSqliteDB opens (creating if needed) the durable store and installs the
// schema. WAL keeps concurrent progress writes from blocking readers.
func OpenSqliteDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(10000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}
