package records

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxter/simrec/internal/store"
	"github.com/maxter/simrec/internal/testutil"
)

// createTestRecords opens a fresh store in a temp dir and wraps it with a
// fake clock.
func createTestRecords(t *testing.T, opts ...Option) (*RecordStore, *testutil.FakeClock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewFakeClock(time.Time{})
	opts = append([]Option{WithClock(clock)}, opts...)
	return New(st, opts...), clock
}

// createAudioFile writes a small placeholder file and returns its path.
func createAudioFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	return path
}

// countingListener records how many times it was notified.
type countingListener struct {
	calls int
}

func (l *countingListener) OnNewEntryAdded() {
	l.calls++
}
