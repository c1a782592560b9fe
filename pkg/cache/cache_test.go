package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	tmpDir, err := os.MkdirTemp("", "cache-")
	require.NoError(err)
	defer os.RemoveAll(tmpDir)

	store := NewAt(tmpDir)
	require.NoError(store.Save("composer-name", "env-1"))

	// A fresh Store sees the persisted value
	fresh := NewAt(tmpDir)
	require.Equal("env-1", fresh.Load("composer-name"))
}

func TestLoadUnsetKey(t *testing.T) {
	require := require.New(t)

	tmpDir, err := os.MkdirTemp("", "cache-")
	require.NoError(err)
	defer os.RemoveAll(tmpDir)

	store := NewAt(tmpDir)
	require.Equal("", store.Load("composer-location"))
}

func TestSaveOverwrites(t *testing.T) {
	require := require.New(t)

	tmpDir, err := os.MkdirTemp("", "cache-")
	require.NoError(err)
	defer os.RemoveAll(tmpDir)

	store := NewAt(tmpDir)
	require.NoError(store.Save("composer-name", "env-1"))
	require.NoError(store.Save("composer-name", "env-2"))
	require.Equal("env-2", store.Load("composer-name"))
}

func TestSaveCreatesDirectory(t *testing.T) {
	require := require.New(t)

	tmpDir, err := os.MkdirTemp("", "cache-")
	require.NoError(err)
	defer os.RemoveAll(tmpDir)

	store := NewAt(filepath.Join(tmpDir, "nested", "cache"))
	require.NoError(store.Save("composer-name", "env-1"))
	require.Equal("env-1", store.Load("composer-name"))
}

func TestSaveFailureIsAnError(t *testing.T) {
	require := require.New(t)

	tmpDir, err := os.MkdirTemp("", "cache-")
	require.NoError(err)
	defer os.RemoveAll(tmpDir)

	// A file where the cache directory should be makes writes fail
	blocker := filepath.Join(tmpDir, "blocked")
	require.NoError(os.WriteFile(blocker, []byte("x"), 0644))

	store := NewAt(blocker)
	require.Error(store.Save("composer-name", "env-1"))
	require.Equal("", store.Load("composer-name"))
}
