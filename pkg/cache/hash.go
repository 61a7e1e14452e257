package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// keyVersion is part of every artifact key. Bump it when the same DOT text
// starts rendering differently, for example after a Graphviz upgrade.
const keyVersion = "1"

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKey returns the cache key of a graph rendered from dot in the
// given output format, of the form "artifact:<format>:<digest>".
func ArtifactKey(dot, format string) string {
	return "artifact:" + format + ":" + Hash([]byte(keyVersion+"\x00"+dot))
}
