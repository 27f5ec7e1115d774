// Package checksum derives content digests for documents and stable
// identifiers for parsed tasks.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ID returns a short digest of parts joined by NUL. The same parts always
// yield the same ID.
func ID(n int, parts ...string) string {
	s := Sum([]byte(strings.Join(parts, "\x00")))
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}
