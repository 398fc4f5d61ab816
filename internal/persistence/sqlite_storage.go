package persistence

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// ErrChecksumMismatch is returned by Load when a stored snapshot fails verification.
var ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		checksum   BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)
`

// sqliteStorage implements Storage on a local SQLite database file.
type sqliteStorage struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStorage opens (or creates) the SQLite database at dbPath.
func NewSQLiteStorage(ctx context.Context, dbPath string, logger zerolog.Logger) (Storage, error) {
	logger = logger.With().Str("component", "sqlite-storage").Logger()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL keeps the last committed snapshot readable after a crash.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite storage initialised")

	return &sqliteStorage{
		db:     db,
		logger: logger,
	}, nil
}

// Load reads the snapshot for key and verifies its checksum.
func (s *sqliteStorage) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data, checksum FROM snapshots WHERE key = ?`

	var data, storedChecksum []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data, &storedChecksum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	computed := sha256.Sum256(data)
	if !bytes.Equal(computed[:], storedChecksum) {
		s.logger.Warn().Str("key", key).Msg("snapshot checksum mismatch")
		return nil, ErrChecksumMismatch
	}

	return data, nil
}

// Save upserts the snapshot for key together with its checksum.
func (s *sqliteStorage) Save(ctx context.Context, key string, data []byte) error {
	checksum := sha256.Sum256(data)

	query := `INSERT OR REPLACE INTO snapshots (key, data, checksum, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, key, data, checksum[:], time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	return nil
}

func (s *sqliteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *sqliteStorage) Close() error {
	return s.db.Close()
}
