package sharelinks

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy of a raw link token. 32 bytes hex-encodes to a
// 64-character token.
const tokenBytes = 32

// GenerateToken creates a new raw link token from the CSPRNG. The raw token
// is shown to the creator exactly once; only its hash is ever stored.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a raw token. The same
// function runs at issue time and at verify time, so lookups work purely on
// the stored hash. Tokens carry 256 bits of CSPRNG entropy, which is why an
// unsalted digest suffices here where passwords need scrypt.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// MaskToken renders a token for display in lists and confirmation screens:
// the first six and last four characters with an ellipsis between. Tokens
// of twelve characters or fewer are returned unchanged, since masking them
// would obscure nothing. Cosmetic only; never used for lookups.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:6] + "..." + token[len(token)-4:]
}
