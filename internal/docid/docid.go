// Package docid derives deterministic document IDs for ingested content.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// idLen is the number of hex characters kept from the digest; plenty for a
// corpus of hundreds of documents.
const idLen = 16

const filePrefix = "file:"

// FromContent returns a stable ID for uploaded content. The same filename and
// bytes always yield the same ID, so re-uploading a file replaces its document
// instead of duplicating it.
func FromContent(filename string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:idLen]
}

// FromPath returns a stable document ID for a watched file path. Same path
// always yields the same ID, so index/update/delete by path line up.
func FromPath(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	sum := sha256.Sum256([]byte(normalized))
	return filePrefix + hex.EncodeToString(sum[:])[:idLen]
}
