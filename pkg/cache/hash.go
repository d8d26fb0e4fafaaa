package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash computes the SHA-256 hash of data as a 64-character hex string.
// Pipeline stages use it to content-address their inputs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a "prefix:Hash(parts)" cache key. The parts are
// serialized as JSON before hashing, so adding a field to an options
// struct automatically invalidates old entries.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
