package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SumSHA256 returns the SHA-256 checksum of the provided data.
func SumSHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Fingerprint returns a short hex digest, safe to use in logs and task ids
// where the raw value (a token, an email) must not appear.
func Fingerprint(s string) string {
	sum := SumSHA256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
