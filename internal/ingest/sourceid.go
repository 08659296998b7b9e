package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const fileSourcePrefix = "file:"

// FileSourceID returns a stable source ID for the given path. The same path
// always yields the same ID, so records from repeated ingestions of one
// file share a document attribution prefix.
func FileSourceID(path string) string {
	normalized := filepath.Clean(path)
	if abs, err := filepath.Abs(normalized); err == nil {
		normalized = abs
	}
	hash := sha256.Sum256([]byte(normalized))
	return fileSourcePrefix + hex.EncodeToString(hash[:8])
}
