package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data. Keys are content addresses,
// so the digest is kept at full length rather than truncated.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a namespaced key of the form "<prefix>:<digest>", where
// the digest covers the JSON encoding of parts. JSON gives the mixed-type
// option sets a deterministic byte form.
func hashKey(prefix string, parts ...any) string {
	encoded, _ := json.Marshal(parts)
	return prefix + ":" + Hash(encoded)
}
