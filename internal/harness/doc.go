// Package harness runs YAML scenarios against a RecordStore.
//
// A scenario is a list of steps (add, remove_at, rename_at, get_at, get,
// remove, rename, count, list), each with optional expectations. Every
// scenario runs in a fresh in-memory database with a ticking fake clock, and
// file deletions are captured instead of touching the filesystem, so the
// trace a scenario produces is identical on every run. Traces can be compared
// against golden files in testdata/golden.
//
// Example:
//
//	name: add_then_remove
//	description: Removing the first recording shifts the second into place
//	steps:
//	  - op: add
//	    name: a.wav
//	    path: /r/a.wav
//	    length: 1000
//	    expect: {id: 1}
//	  - op: remove_at
//	    index: 0
//	  - op: get_at
//	    index: 0
//	    expect: {name: b.wav}
package harness
