package sharelinks

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for link passwords. Link passwords are human-chosen and
// low-entropy, unlike the tokens themselves, so they get a memory-hard KDF.
const (
	scryptN       = 32768
	scryptR       = 8
	scryptP       = 1
	scryptSaltLen = 16
	scryptKeyLen  = 64
)

// HashPassword derives a storable record from a plaintext link password.
// The record is "salt:derivedKey", both hex-encoded, with a fresh random
// salt per call.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("deriving key: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a plaintext password against a stored record.
//
// An empty stored record means the link is not password protected, so any
// input passes. A malformed record fails closed: the answer is false, never
// an error, so callers cannot accidentally treat corruption as success.
// Comparison is constant time.
func VerifyPassword(plain, stored string) bool {
	if stored == "" {
		return true
	}

	saltHex, keyHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}
	if len(salt) != scryptSaltLen || len(expected) != scryptKeyLen {
		return false
	}

	key, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// IsPasswordProtected reports whether a stored record demands a password.
// Kept as a named predicate so callers never test the raw record directly.
func IsPasswordProtected(stored string) bool {
	return stored != ""
}
