package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the log hash salt from the environment. In
// production, set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashUserID creates a privacy-preserving hash of a user ID. This
// allows correlating a user's requests in logs without exposing the
// actual ID.
func HashUserID(userID int64) string {
	data := fmt.Sprintf("%d:%s", userID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough for correlation.
	return hex.EncodeToString(hash[:])[:8]
}

// RedactEmail keeps the first character of the local part and the
// domain, hiding the rest of the address.
func RedactEmail(email string) string {
	if email == "" {
		return "<empty>"
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "<invalid>"
	}
	return email[:1] + "***" + email[at:]
}

// SanitizeDescription redacts a free-text description but preserves
// length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}
	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}
