package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// Digest is the hex SHA-256 of s.
func Digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ShortDigest is the first n characters of Digest(s), n clamped to [1, 64].
func ShortDigest(s string, n int) string {
	d := Digest(s)
	return d[:min(max(n, 1), len(d))]
}

// shardPath places key under dir in one of 256 subdirectories named by the
// first digest byte.
func shardPath(dir, key, ext string) string {
	d := Digest(key)
	return filepath.Join(dir, d[:2], d[2:]+ext)
}
