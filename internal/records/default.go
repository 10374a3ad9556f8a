package records

import (
	"sync"

	"github.com/maxter/simrec/internal/config"
)

var (
	defaultMu    sync.Mutex
	defaultStore *RecordStore
)

// InitDefault opens the process-wide RecordStore from cfg if none exists and
// returns it. Later calls return the existing store and ignore their
// arguments.
//
// Prefer passing a *RecordStore explicitly; the default exists for hosts that
// cannot thread one through.
func InitDefault(cfg config.Config, opts ...Option) (*RecordStore, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStore != nil {
		return defaultStore, nil
	}

	s, err := Open(cfg, opts...)
	if err != nil {
		return nil, err
	}
	defaultStore = s
	return s, nil
}

// Default returns the store created by InitDefault, or nil if InitDefault has
// not succeeded yet. It never creates one.
func Default() *RecordStore {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultStore
}
