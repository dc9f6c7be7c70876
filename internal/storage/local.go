package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/cv-perfecto/internal/latex"
	"github.com/jonathan/cv-perfecto/internal/logger"
)

// LocalStore keeps artifacts in a directory on disk.
type LocalStore struct {
	dir string
	now func() time.Time
}

var _ ArtifactStore = (*LocalStore)(nil)

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Dir returns the output directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Save writes the document under a timestamped name. Names never collide;
// a taken millisecond moves on to the next one.
func (s *LocalStore) Save(_ context.Context, doc string) (string, error) {
	t := s.now()
	for attempt := 0; attempt < 1000; attempt++ {
		name := ArtifactName(t.Add(time.Duration(attempt) * time.Millisecond))
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}

		_, werr := f.WriteString(doc)
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(path)
			latex.CleanupAuxFiles(path)
			return "", fmt.Errorf("failed to write %s: %w", path, werr)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free artifact name near %s", ArtifactName(t))
}

// Open reads an artifact.
func (s *LocalStore) Open(_ context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return data, err
}

// Path returns the on-disk location of an artifact.
func (s *LocalStore) Path(key string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key), nil
}

// CleanupOlderThan removes every regular file in the directory whose
// modification time is older than maxAge. Failures on single files are
// logged and skipped.
func (s *LocalStore) CleanupOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("failed to delete old file")
			continue
		}
		logger.Debug().Str("file", e.Name()).Msg("deleted old file")
		removed++
	}
	return removed, nil
}

// Ready checks that the directory exists and is a directory.
func (s *LocalStore) Ready(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
