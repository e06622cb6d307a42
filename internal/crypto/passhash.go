// Package crypto implements server-side password hashing and session token generation.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"github.com/gofrs/uuid/v5"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPassword returns the Argon2id digest of password using the provided salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword verifies password against the expected digest and salt.
func VerifyPassword(password, salt, expected []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// NewSessionToken returns a fresh opaque session token. UUIDv4 carries 122
// bits of randomness, which is the entropy floor for capability tokens here.
func NewSessionToken() (string, error) {
	t, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return t.String(), nil
}
