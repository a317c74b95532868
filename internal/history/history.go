// Package history keeps a local log of training and linking submissions
// made through the CLI, so past runs can be inspected without the server.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Kind distinguishes what was submitted.
type Kind string

const (
	KindTrain Kind = "train"
	KindLink  Kind = "link"
)

// Submission is one CLI submission to the server.
type Submission struct {
	ID        int64
	Kind      Kind
	RemoteID  string
	ProjectID string
	Name      string
	Status    string
	Detail    map[string]string
	Timestamp time.Time
}

// DB stores submissions in a single SQLite file.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Options configures the history database.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database under dbDir.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "elinkctl.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating new files when CreateIfNotExists is off.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	h := &DB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := h.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return h, nil
}

// Close closes the database connection.
func (h *DB) Close() error {
	return h.db.Close()
}

func (h *DB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		remote_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_kind ON submissions(kind);
	CREATE INDEX IF NOT EXISTS idx_submissions_name ON submissions(name);
	CREATE INDEX IF NOT EXISTS idx_submissions_timestamp ON submissions(timestamp);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Record inserts a submission into the log.
func (h *DB) Record(ctx context.Context, sub *Submission) (int64, error) {
	detailJSON, err := json.Marshal(sub.Detail)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize detail: %w", err)
	}

	query := `
	INSERT INTO submissions (kind, remote_id, project_id, name, status, detail)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := h.db.ExecContext(ctx, query,
		string(sub.Kind),
		sub.RemoteID,
		sub.ProjectID,
		sub.Name,
		sub.Status,
		string(detailJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record submission: %w", err)
	}

	return result.LastInsertId()
}

// ListRecent returns the newest submissions, optionally filtered by kind.
func (h *DB) ListRecent(ctx context.Context, kind Kind, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, kind, remote_id, project_id, name, status, detail, timestamp
	FROM submissions
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if kind != "" {
		query += " AND kind = ?"
		args = append(args, string(kind))
	}

	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var results []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, sub)
	}

	return results, rows.Err()
}

// LatestByName returns the most recent submission with the given name,
// or nil when the name has never been submitted.
func (h *DB) LatestByName(ctx context.Context, name string) (*Submission, error) {
	query := `
	SELECT id, kind, remote_id, project_id, name, status, detail, timestamp
	FROM submissions
	WHERE name = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	rows, err := h.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	sub, err := scanSubmission(rows)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func scanSubmission(rows *sql.Rows) (Submission, error) {
	var sub Submission
	var kind, timestamp string
	var detailJSON sql.NullString

	if err := rows.Scan(
		&sub.ID,
		&kind,
		&sub.RemoteID,
		&sub.ProjectID,
		&sub.Name,
		&sub.Status,
		&detailJSON,
		&timestamp,
	); err != nil {
		return Submission{}, fmt.Errorf("failed to scan submission: %w", err)
	}

	sub.Kind = Kind(kind)
	sub.Timestamp = parseTimestamp(timestamp)

	if detailJSON.Valid && detailJSON.String != "" {
		if err := json.Unmarshal([]byte(detailJSON.String), &sub.Detail); err != nil {
			sub.Detail = nil
		}
	}

	return sub, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a SQLite timestamp, returning zero time when no
// known format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
