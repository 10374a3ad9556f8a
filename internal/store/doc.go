// Package store provides SQLite-backed durable storage for saved recording
// metadata.
//
// The on-disk layout is fixed so that databases written by earlier versions of
// the recorder keep working:
//
//	database: saved_recordings.db
//	table:    saved_recording_tb
//	columns:  _id, name, path, length, created_time
//
// There are no secondary indexes and no foreign keys. The schema is at
// version 1 (PRAGMA user_version); upgrading from any later version is a
// no-op.
//
// # Drivers
//
// Two database/sql drivers are linked in:
//   - "sqlite3": github.com/mattn/go-sqlite3 (cgo, default)
//   - "sqlite":  modernc.org/sqlite (pure Go)
//
// Both accept the same SQL and pragmas.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Scan order is always ORDER BY _id ASC so positions are reproducible.
package store
