package services

import (
	"crypto/sha256"
	"encoding/hex"
)

// Truncation lengths for the pseudonymous digests. The fingerprint is the
// longest so repeat visitors can be told apart reliably; the per-field
// hashes are shorter because they are only stored for operational context,
// never joined back to a person.
const (
	fingerprintLen = 16
	ipHashLen      = 12
	headerHashLen  = 8
)

// Fingerprint derives the pseudonymous visitor identifier from IP and user
// agent. Deterministic and irreversible; absent inputs are treated as empty
// strings.
func Fingerprint(ip, userAgent string) string {
	return hashTruncated(ip+":"+userAgent, fingerprintLen)
}

// HashIP returns the salted digest stored in place of a raw IP address.
func HashIP(ip string) string {
	return hashTruncated(ip, ipHashLen)
}

// HashHeader digests a user agent or referer value. An empty value stays
// empty so optional fields are omitted from serialized records.
func HashHeader(value string) string {
	if value == "" {
		return ""
	}
	return hashTruncated(value, headerHashLen)
}

func hashTruncated(value string, length int) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:length]
}
