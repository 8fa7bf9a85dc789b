package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString returns the hex SHA-256 of input. Phone numbers and email
// addresses go through it before they reach a log line.
func HashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
