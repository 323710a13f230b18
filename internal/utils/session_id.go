package utils

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// sessionIDBytes is the amount of entropy in a session id.
const sessionIDBytes = 32

// GenerateSessionID returns an unguessable session identifier: 32 random
// bytes in unpadded base32.
func GenerateSessionID() (string, error) {
	bytes := make([]byte, sessionIDBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return strings.TrimRight(base32.StdEncoding.EncodeToString(bytes), "="), nil
}
