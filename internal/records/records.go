package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/maxter/simrec/internal/config"
	"github.com/maxter/simrec/internal/logging"
	"github.com/maxter/simrec/internal/recording"
	"github.com/maxter/simrec/internal/store"
)

// countNotLoaded marks a count that has not been read from the store yet.
const countNotLoaded = -1

// RecordStore is the recordings list backed by a store.Store.
type RecordStore struct {
	mu sync.Mutex

	st         *store.Store
	ownsDB     bool
	clock      Clock
	logger     *slog.Logger
	removeFile func(string) error

	cache    []recording.Info
	loaded   bool
	count    int
	listener ChangeListener
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithClock overrides the clock used for created_time.
func WithClock(c Clock) Option {
	return func(s *RecordStore) { s.clock = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *RecordStore) { s.logger = l }
}

// WithFileRemover replaces os.Remove for deleting audio files.
func WithFileRemover(fn func(path string) error) Option {
	return func(s *RecordStore) { s.removeFile = fn }
}

// WithListener registers the change listener at construction.
func WithListener(l ChangeListener) Option {
	return func(s *RecordStore) { s.listener = l }
}

// New wraps an open store. The caller keeps ownership of st; Close on the
// returned RecordStore does not close it.
func New(st *store.Store, opts ...Option) *RecordStore {
	s := &RecordStore{
		st:         st,
		clock:      SystemClock{},
		logger:     logging.Discard(),
		removeFile: os.Remove,
		count:      countNotLoaded,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open opens the database described by cfg, creating the recordings table if
// it is absent, and returns a RecordStore that owns it.
func Open(cfg config.Config, opts ...Option) (*RecordStore, error) {
	if cfg.DataDir != "" && cfg.DBName != ":memory:" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	st, err := store.Open(cfg.DBPath(), store.WithDriver(cfg.Driver))
	if err != nil {
		return nil, fmt.Errorf("open recordings store: %w", err)
	}

	s := New(st, opts...)
	s.ownsDB = true
	s.logger.Debug("recordings store opened", "path", cfg.DBPath(), "driver", st.Driver())
	return s, nil
}

// Close releases the database if this RecordStore opened it.
func (s *RecordStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.st.Close()
}

// Store returns the underlying store.
func (s *RecordStore) Store() *store.Store {
	return s.st
}

// SetChangeListener replaces the listener. nil removes it.
func (s *RecordStore) SetChangeListener(l ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Count returns the number of recordings.
//
// The first call reads the store; later calls return the bookkept value.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == countNotLoaded {
		n, err := s.st.Count(ctx)
		if err != nil {
			return 0, err
		}
		s.count = n
	}
	return s.count, nil
}

// Add inserts a recording and returns its ID. name and path are stored as
// given. created_time is the clock's current time in milliseconds; the same
// value goes to the store and the cache. The listener, if any, is called once
// after the insert committed.
func (s *RecordStore) Add(ctx context.Context, name, path string, length int64) (int64, error) {
	s.mu.Lock()
	info := recording.Info{
		Name:        name,
		Path:        path,
		Length:      length,
		CreatedTime: s.clock.Now().UnixMilli(),
	}

	id, err := s.st.Insert(ctx, info)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	info.ID = id

	// An unloaded cache picks the row up on its first scan.
	if s.loaded {
		s.cache = append(s.cache, info)
	}
	if s.count != countNotLoaded {
		s.count++
	}
	listener := s.listener
	s.mu.Unlock()

	s.logger.Debug("recording added", "id", id, "name", info.Name, "path", info.Path)

	if listener != nil {
		listener.OnNewEntryAdded()
	}
	return id, nil
}

// At returns the recording at position index in ID order.
//
// A cached entry is returned directly. On a miss the cache is reloaded from
// the store once and the lookup retried. Returns ErrNotFound if index is out
// of range in both.
func (s *RecordStore) At(ctx context.Context, index int) (recording.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveIndex(ctx, index)
	if err != nil {
		return recording.Info{}, err
	}
	return s.cache[i], nil
}

// Get returns the recording with the given ID.
func (s *RecordStore) Get(ctx context.Context, id int64) (recording.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveID(ctx, id)
	if err != nil {
		return recording.Info{}, err
	}
	return s.cache[i], nil
}

// List returns a copy of every recording in ID order.
func (s *RecordStore) List(ctx context.Context) ([]recording.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.cache), nil
}

// RemoveAt deletes the recording at position index, then its audio file.
//
// index must be a valid position in the list; otherwise an *IndexError is
// returned and nothing is deleted.
func (s *RecordStore) RemoveAt(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	if index < 0 || index >= len(s.cache) {
		return &IndexError{Op: "remove", Index: index, Len: len(s.cache)}
	}
	return s.removeLocked(ctx, index)
}

// Remove deletes the recording with the given ID, then its audio file.
func (s *RecordStore) Remove(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	return s.removeLocked(ctx, i)
}

// RenameAt sets a new name and path on the recording at position index.
//
// The position is resolved like At. The audio file itself is not moved.
func (s *RecordStore) RenameAt(ctx context.Context, index int, newName, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveIndex(ctx, index)
	if err != nil {
		return err
	}
	return s.renameLocked(ctx, i, newName, newPath)
}

// Rename sets a new name and path on the recording with the given ID.
func (s *RecordStore) Rename(ctx context.Context, id int64, newName, newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	return s.renameLocked(ctx, i, newName, newPath)
}

// Refresh drops the cache and cached count. The next call re-reads the store.
func (s *RecordStore) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	s.loaded = false
	s.count = countNotLoaded
}

// ensureLoaded fills the cache on first use.
func (s *RecordStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.reload(ctx)
}

// reload replaces the cache with a full scan of the store.
func (s *RecordStore) reload(ctx context.Context) error {
	infos, err := s.st.ReadAll(ctx)
	if err != nil {
		return err
	}
	s.cache = infos
	s.loaded = true
	s.logger.Debug("recordings cache reloaded", "rows", len(infos))
	return nil
}

// resolveIndex maps a list position to a cache position, reloading once on a
// miss. Must be called with mu held.
func (s *RecordStore) resolveIndex(ctx context.Context, index int) (int, error) {
	if index < 0 {
		return 0, ErrNotFound
	}

	wasLoaded := s.loaded
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	if index < len(s.cache) {
		return index, nil
	}

	if wasLoaded {
		if err := s.reload(ctx); err != nil {
			return 0, err
		}
		if index < len(s.cache) {
			return index, nil
		}
	}
	return 0, ErrNotFound
}

// resolveID maps an ID to a cache position. On a miss the row is looked up
// by key; only a row the cache does not hold yet triggers a full reload.
// Must be called with mu held.
func (s *RecordStore) resolveID(ctx context.Context, id int64) (int, error) {
	wasLoaded := s.loaded
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	if i := s.indexOf(id); i >= 0 {
		return i, nil
	}
	if !wasLoaded {
		return 0, ErrNotFound
	}

	if _, err := s.st.ReadByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if err := s.reload(ctx); err != nil {
		return 0, err
	}
	if i := s.indexOf(id); i >= 0 {
		return i, nil
	}
	return 0, ErrNotFound
}

func (s *RecordStore) indexOf(id int64) int {
	return slices.IndexFunc(s.cache, func(info recording.Info) bool {
		return info.ID == id
	})
}

// removeLocked deletes cache entry i from the store, the cache and the
// filesystem. Must be called with mu held.
func (s *RecordStore) removeLocked(ctx context.Context, i int) error {
	info := s.cache[i]

	deleted, err := s.st.Delete(ctx, info.ID)
	if err != nil {
		return err
	}

	s.cache = slices.Delete(s.cache, i, i+1)
	if !deleted {
		// Another writer removed the row and its file; recount on next use.
		s.count = countNotLoaded
		s.logger.Debug("recording already removed", "id", info.ID)
		return nil
	}
	if s.count > 0 {
		s.count--
	}

	s.logger.Debug("recording removed", "id", info.ID, "path", info.Path)

	if info.Path != "" {
		if err := s.removeFile(info.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove recording file", "id", info.ID, "path", info.Path, "error", err)
		}
	}
	return nil
}

// renameLocked updates cache entry i in the store and in place.
// Must be called with mu held.
func (s *RecordStore) renameLocked(ctx context.Context, i int, newName, newPath string) error {
	id := s.cache[i].ID

	ok, err := s.st.Rename(ctx, id, newName, newPath)
	if err != nil {
		return err
	}
	if !ok {
		// Deleted behind our back; resync so positions stay honest.
		if err := s.reload(ctx); err != nil {
			return err
		}
		return ErrNotFound
	}

	s.cache[i].Name = newName
	s.cache[i].Path = newPath

	s.logger.Debug("recording renamed", "id", id, "name", newName, "path", newPath)
	return nil
}
