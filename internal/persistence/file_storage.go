package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileStorage implements Storage as one JSON file per key in a directory.
type fileStorage struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStorage creates a file-backed Storage rooted at dir, creating dir if needed.
func NewFileStorage(dir string, logger zerolog.Logger) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "file-storage").Logger()
	logger.Info().Str("dir", dir).Msg("file storage initialised")

	return &fileStorage{
		dir:    dir,
		logger: logger,
	}, nil
}

func (s *fileStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

// Load reads the snapshot file for key.
func (s *fileStorage) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save writes the snapshot to a temporary file and renames it over the old one,
// so readers never see a partially written snapshot.
func (s *fileStorage) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(key)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot %s: %w", key, err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

func (s *fileStorage) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *fileStorage) Close() error {
	return nil
}
