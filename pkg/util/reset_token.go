package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// resetTokenLength is the byte length of the reset token
const resetTokenLength = 32

// GenerateResetToken creates a cryptographically secure random token and the
// one-way hash of it. The plaintext is handed to the user once; only the hash
// is ever persisted.
func GenerateResetToken() (plaintext string, hash string, err error) {
	bytes := make([]byte, resetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", err
	}
	plaintext = hex.EncodeToString(bytes)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken derives the stored hash from a plaintext reset token.
// sha256 rather than bcrypt: the record is looked up by the digest itself, so
// the derivation has to be deterministic.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
