package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewInviteToken returns an invite capability token with a stable prefix so
// tokens are recognizable in links and logs.
func NewInviteToken() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return "inv_" + hex.EncodeToString(b)
}
