package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateRandomString returns a URL-safe random string of the given length.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	// 6 bits per base64 character
	numBytes := (length*6 + 7) / 8

	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("generate random string: %w", err)
	}

	randomString := base64.RawURLEncoding.EncodeToString(randomBytes)
	return randomString[:length], nil
}
