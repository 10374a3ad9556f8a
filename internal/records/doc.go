// Package records implements the saved-recordings list: a SQLite table of
// recording metadata, an in-memory cache of the same rows, a cached row count
// and a single listener notified on insert.
//
// # Identity
//
// Every recording has a stable ID assigned by the store. Get, Remove and
// Rename operate on IDs. At, RemoveAt and RenameAt accept a list position
// for callers that render the list; a position is only meaningful until the
// next Add or Remove.
//
// # Cache
//
// The cache is filled from a full ORDER BY _id scan on first use and again on
// any positional miss, so cache position i is always scan position i. Entries
// are returned by value; callers never hold a pointer into the cache.
//
// # Count
//
// Count queries the store once and then keeps its own bookkeeping: +1 per
// Add, -1 per Remove. Rows written to the database by other processes are not
// seen until Refresh.
//
// # Concurrency
//
// One mutex serializes every operation. The change listener runs after the
// mutex is released, synchronously on the goroutine that called Add, so a
// listener may call back into the RecordStore.
//
// # Files
//
// Remove deletes the audio file at the recording's path after the row is
// gone. File errors are logged and otherwise ignored; a crash between the two
// leaves an orphaned file.
package records
