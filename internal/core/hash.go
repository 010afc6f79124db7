package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashEntryPoint returns a stable content hash of synthesized entry text.
// Identical component lists produce identical hashes, so it can key caches.
func HashEntryPoint(entry string) string {
	sum := sha256.Sum256([]byte(entry))
	return hex.EncodeToString(sum[:])
}
