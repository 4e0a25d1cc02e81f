// Package snapshot persists point-in-time analysis results so an external
// staleness-diff flow can compare runs. Payloads are deterministically
// encoded, zstd-compressed, and stored in a SQLite database under
// .pkglens/; the stored blob is opaque to every other component.
package snapshot

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"pkglens/internal/errors"
	"pkglens/internal/logging"
	"pkglens/internal/model"
	"pkglens/internal/output"
)

// Store wraps the snapshot database.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Meta describes one stored snapshot.
type Meta struct {
	ID        string    `json:"id"`
	Package   string    `json:"package"`
	CreatedAt time.Time `json:"createdAt"`
	SizeBytes int       `json:"sizeBytes"`
}

// Open opens or creates the snapshot database at <root>/.pkglens/pkglens.db.
func Open(root string, logger *logging.Logger) (*Store, error) {
	dir := filepath.Join(root, ".pkglens")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .pkglens directory: %w", err)
	}
	dbPath := filepath.Join(dir, "pkglens.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		package TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		payload BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_package ON snapshots(package, created_at DESC);`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Save encodes, compresses, and stores one analysis result, returning the
// new snapshot id.
func (s *Store) Save(result *model.AnalysisResult) (string, error) {
	encoded, err := output.DeterministicEncode(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}
	payload := enc.EncodeAll(encoded, nil)
	enc.Close()

	id := uuid.New().String()
	_, err = s.conn.Exec(
		"INSERT INTO snapshots (id, package, created_at, payload) VALUES (?, ?, ?, ?)",
		id, result.Package, time.Now().Unix(), payload,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.Info("Stored analysis snapshot", map[string]interface{}{
		"id":         id,
		"package":    result.Package,
		"compressed": len(payload),
		"raw":        len(encoded),
	})
	return id, nil
}

// Load returns the decoded payload of one snapshot.
func (s *Store) Load(id string) ([]byte, error) {
	var payload []byte
	err := s.conn.QueryRow("SELECT payload FROM snapshots WHERE id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.SnapshotNotFound, fmt.Sprintf("snapshot %s not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, errors.New(errors.SnapshotCorrupt, fmt.Sprintf("snapshot %s payload is corrupt", id), err)
	}
	return raw, nil
}

// Latest returns the most recent snapshot id for a package, or "" when
// none exists.
func (s *Store) Latest(pkg string) (string, error) {
	var id string
	err := s.conn.QueryRow(
		"SELECT id FROM snapshots WHERE package = ? ORDER BY created_at DESC, id DESC LIMIT 1", pkg,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return id, nil
}

// List returns metadata for a package's snapshots, newest first.
func (s *Store) List(pkg string) ([]Meta, error) {
	rows, err := s.conn.Query(
		"SELECT id, package, created_at, LENGTH(payload) FROM snapshots WHERE package = ? ORDER BY created_at DESC, id DESC", pkg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Package, &createdAt, &m.SizeBytes); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		metas = append(metas, m)
	}
	return metas, rows.Err()
}
