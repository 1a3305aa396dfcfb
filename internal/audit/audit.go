// Package audit keeps a local append-only trail of vault operations in
// SQLite. Entries carry the operation, the record label, and the vault path;
// secret material is never written here.
package audit

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kmorrow/lockbox/internal/events"
)

// Operation names recorded in the trail.
const (
	OpInit   = "init"
	OpLoad   = "load"
	OpAdd    = "add"
	OpGet    = "get"
	OpList   = "list"
	OpUpdate = "update"
	OpDelete = "delete"
	OpSave   = "save"
)

// Entry is one recorded operation.
type Entry struct {
	ID        int64
	Timestamp time.Time
	Operation string
	Label     string
	VaultPath string
}

// Trail is an append-only operation log.
type Trail struct {
	db     *sql.DB
	logger *events.Logger
}

// Open creates or opens the audit database.
func Open(dbPath string, logger *events.Logger) (*Trail, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}

	trail := &Trail{
		db:     db,
		logger: logger.WithField("component", "audit"),
	}

	if err := trail.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize audit database: %w", err)
	}

	return trail, nil
}

// initialize creates the schema.
func (t *Trail) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS audit_log (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        operation TEXT NOT NULL,
        label TEXT NOT NULL DEFAULT '',
        vault_path TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_audit_log_ts ON audit_log(ts);
    `

	if _, err := t.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Record appends one entry.
func (t *Trail) Record(op, label, vaultPath string) error {
	_, err := t.db.Exec(`
        INSERT INTO audit_log (ts, operation, label, vault_path)
        VALUES (?, ?, ?, ?)
    `, time.Now().UTC(), op, label, vaultPath)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}

	t.logger.WithFields(map[string]interface{}{
		"operation": op,
		"label":     label,
	}).Debug("Audit entry recorded")

	return nil
}

// Recent returns the newest entries, newest first.
func (t *Trail) Recent(limit int) ([]Entry, error) {
	rows, err := t.db.Query(`
        SELECT id, ts, operation, label, vault_path
        FROM audit_log
        ORDER BY id DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Operation, &e.Label, &e.VaultPath); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (t *Trail) Close() error {
	return t.db.Close()
}
