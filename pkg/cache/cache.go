package cache

import (
	"os"
	"path/filepath"
	"strings"
)

const cacheDirName = "composerctl"

// Store persists small configuration values between invocations, one plain
// text file per key.
type Store struct {
	dir string
}

// New returns a Store under the user cache directory.
func New() (*Store, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	return NewAt(filepath.Join(base, cacheDirName)), nil
}

// NewAt returns a Store rooted at the given directory.
func NewAt(dir string) *Store {
	return &Store{dir: dir}
}

// Load returns the stored value for key, or an empty string when no readable
// value exists. Load never fails the caller.
func (s *Store) Load(key string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// Save overwrites the value for key. Callers treat a failed write as
// best-effort, the error is informational.
func (s *Store) Save(key, value string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, key), []byte(value+"\n"), 0644)
}
