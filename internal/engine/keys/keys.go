package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const (
	DefaultPrefix = "mtx_"
	// PrefixDisplayLen is how much of the plaintext key is stored for
	// identification in listings and audit entries.
	PrefixDisplayLen = 8
)

// Generate produces a new plaintext stream key: the prefix marker followed by
// a URL-safe random token. The caller stores only its hash and display
// prefix; the plaintext is shown once and discarded.
func Generate(prefix string, length int) (string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if length <= 0 {
		length = 32
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return prefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash computes the lookup digest of a key: lowercase hex SHA-256. The digest
// is the sole lookup column, so it must be deterministic and collision
// resistant.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// DisplayPrefix returns the non-secret leading characters of a plaintext key.
func DisplayPrefix(key string) string {
	if len(key) <= PrefixDisplayLen {
		return key
	}
	return key[:PrefixDisplayLen]
}
