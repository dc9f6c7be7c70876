// Package storage persists generated LaTeX documents outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ArtifactExt is the extension of stored documents.
const ArtifactExt = ".ltx"

// DefaultMaxAge is how long artifacts are kept by CleanupOlderThan callers.
const DefaultMaxAge = 24 * time.Hour

// ErrNotFound is returned when an artifact key does not exist.
var ErrNotFound = errors.New("artifact not found")

// ArtifactStore saves and retrieves optimized résumé documents.
type ArtifactStore interface {
	// Save stores the document and returns its key.
	Save(ctx context.Context, latex string) (string, error)
	// Open returns the stored document.
	Open(ctx context.Context, key string) ([]byte, error)
	// CleanupOlderThan deletes artifacts last modified before now-maxAge and
	// returns how many were removed.
	CleanupOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
	// Ready reports whether the backing location is usable.
	Ready(ctx context.Context) error
}

// ArtifactName builds the object name for a document saved at t.
func ArtifactName(t time.Time) string {
	return fmt.Sprintf("resume_optimized_%d%s", t.UnixMilli(), ArtifactExt)
}

// validKey rejects keys that could escape the store's namespace.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid artifact key %q", key)
	}
	return nil
}
