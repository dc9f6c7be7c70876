package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "output"))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "resume_optimized_1700000000123.ltx", ArtifactName(time.UnixMilli(1700000000123)))
}

func TestLocalStore_SaveAndOpen(t *testing.T) {
	s := newTestStore(t, time.UnixMilli(1700000000000))
	ctx := context.Background()

	key, err := s.Save(ctx, "\\documentclass{article}")
	require.NoError(t, err)
	assert.Equal(t, "resume_optimized_1700000000000.ltx", key)

	data, err := s.Open(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "\\documentclass{article}", string(data))

	// same millisecond again gets the next free name
	key2, err := s.Save(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, "resume_optimized_1700000000001.ltx", key2)
}

func TestLocalStore_OpenErrors(t *testing.T) {
	s := newTestStore(t, time.Now())
	ctx := context.Background()

	_, err := s.Open(ctx, "missing.ltx")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Open(ctx, "../etc/passwd")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLocalStore_CleanupOlderThan(t *testing.T) {
	now := time.Now()
	s := newTestStore(t, now)
	ctx := context.Background()

	oldPath := filepath.Join(s.Dir(), "old.ltx")
	newPath := filepath.Join(s.Dir(), "new.ltx")
	require.NoError(t, os.WriteFile(oldPath, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(newPath, []byte("y"), 0o644))
	require.NoError(t, os.Chtimes(oldPath, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub"), 0o755))

	removed, err := s.CleanupOlderThan(ctx, DefaultMaxAge)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(newPath)
	assert.NoError(t, err)
}

func TestLocalStore_Ready(t *testing.T) {
	s := newTestStore(t, time.Now())
	assert.NoError(t, s.Ready(context.Background()))

	require.NoError(t, os.RemoveAll(s.Dir()))
	assert.Error(t, s.Ready(context.Background()))
}

func TestValidKey(t *testing.T) {
	assert.NoError(t, validKey("resume_optimized_1.ltx"))
	assert.Error(t, validKey(""))
	assert.Error(t, validKey("a/b"))
	assert.Error(t, validKey(`a\b`))
	assert.Error(t, validKey(".."))
}
