package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey returns a stable, path-safe prefix for a user's stored resumes,
// so raw user IDs never appear in object keys.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
