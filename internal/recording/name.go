package recording

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// DefaultExtension is used by NewFileName when no extension is given.
const DefaultExtension = ".wav"

// NormalizeName trims surrounding whitespace and converts s to NFC.
//
// Visually identical names can arrive in different Unicode forms (macOS
// filesystems hand back NFD, most keyboards produce NFC). Storing NFC keeps
// lookups and listings stable.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NewFileName returns a fresh, time-sortable file path inside dir.
//
// The base name is a UUIDv7 so files created later sort after earlier ones.
// ext may be given with or without the leading dot.
func NewFileName(dir, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(dir, uuid.Must(uuid.NewV7()).String()+ext)
}
