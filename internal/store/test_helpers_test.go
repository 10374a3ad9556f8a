package store

import (
	"path/filepath"
	"testing"

	"github.com/maxter/simrec/internal/recording"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestInfo creates a recording with deterministic fields.
func createTestInfo(name string, length, createdTime int64) recording.Info {
	return recording.Info{
		Name:        name,
		Path:        "/r/" + name,
		Length:      length,
		CreatedTime: createdTime,
	}
}
