package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashUserKey maps an owner id to a fixed-length hex namespace, so guest and
// account ids never appear verbatim in storage keys.
func HashUserKey(ownerID string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return hex.EncodeToString(sum[:])
}
