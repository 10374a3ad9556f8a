// Package recording defines the metadata kept for one saved audio recording.
//
// An Info is a plain value. Identity is the store-assigned ID; Name and Path
// change on rename, Length and CreatedTime never change after insert.
//
// NormalizeName is applied by user-facing input paths such as the CLI; the
// store keeps whatever name its caller passes.
package recording
