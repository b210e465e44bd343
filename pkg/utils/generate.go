package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

)

// ==================== TOKENS ====================

// SessionTokenBytes is the entropy of a client session token before hex encoding.
const SessionTokenBytes = 32

// GenerateSessionToken returns an opaque, fixed-length (64 hex chars) token
// from crypto/rand. It carries no user data.
func GenerateSessionToken() (string, error) {
	return randomHex(SessionTokenBytes)
}

// GenerateUnusablePassword produces a throwaway secret for accounts created
// implicitly by a booking. Its plaintext is discarded after hashing.
func GenerateUnusablePassword() (string, error) {
	return randomHex(32)
}

// TokenPrefix shortens a token for logs.
func TokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// ==================== NAMES ====================

// SplitName splits a single "name" field on the first run of whitespace.
// "Jane Mary Doe" -> ("Jane", "Mary Doe"); "Cher" -> ("Cher", "").
func SplitName(full string) (first, last string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
