package id

import (
	"strings"

	"github.com/google/uuid"
)

// Prefix marks generated journal-entry IDs.
const Prefix = "JE-"

// NewJEID returns a fresh journal-entry ID like "JE-9f86d081". All rows of
// one entry share a single ID.
func NewJEID() string {
	u := uuid.New()
	return Prefix + strings.ReplaceAll(u.String(), "-", "")[:8]
}

// Normalize trims surrounding whitespace from an imported entry ID. An ID
// that is blank after trimming is reported as missing so the caller can
// generate one.
func Normalize(raw string) (jeID string, ok bool) {
	jeID = strings.TrimSpace(raw)
	return jeID, jeID != ""
}
