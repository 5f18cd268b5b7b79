package record

import (
	"crypto/md5"
	"encoding/hex"
)

// Fingerprint computes the content hash used for dedup identity and change
// detection. MD5 is deliberate: a 128-bit digest is plenty for equality
// testing of clipboard payloads, and cryptographic strength is not required.
func Fingerprint(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintText hashes a text payload.
func FingerprintText(text string) string {
	return Fingerprint([]byte(text))
}
