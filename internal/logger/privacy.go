package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the log hash salt from the environment. In production,
// set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

func init() {
	InitHashSalt()
}

// HashSubject creates a privacy-preserving hash of an identity-provider
// subject id. This allows correlating log lines without exposing the id.
func HashSubject(subject string) string {
	hash := sha256.Sum256([]byte(subject + ":" + hashSalt))
	// First 8 characters are enough for correlation.
	return hex.EncodeToString(hash[:])[:8]
}

// MaskEmail redacts the local part of an email address, keeping the domain
// so log lines stay debuggable.
func MaskEmail(email string) string {
	if email == "" {
		return "<empty>"
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "<invalid>"
	}
	return email[:1] + "***@" + email[at+1:]
}
