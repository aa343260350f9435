package keys

import (
	"crypto/rand"
	"fmt"
)

const (
	secretPrefix   = "sk_live_"
	secretAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	secretLength   = 26
)

// GenerateSecret returns a fresh bearer secret: the fixed live prefix
// followed by a random lowercase-alphanumeric suffix. Secrets are never
// derivable from a key's id.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = secretAlphabet[int(b)%len(secretAlphabet)]
	}
	return secretPrefix + string(buf), nil
}
