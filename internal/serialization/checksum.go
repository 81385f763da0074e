package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Checksum returns the hex encoded SHA-256 digest of a blob.
func Checksum(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// verifyChecksum compares the blob digest against an expected hex digest.
// An empty expectation always passes.
func verifyChecksum(blob []byte, want string) (string, error) {
	got := Checksum(blob)
	want = strings.ToLower(strings.TrimSpace(want))
	if want != "" && got != want {
		return got, fmt.Errorf("%w: got %s, expected %s", ErrChecksumMismatch, got, want)
	}
	return got, nil
}
