// Package credential turns plaintext passwords into storable scrypt
// credentials and verifies passwords against them.
//
// A stored credential has the form "<hex(derived key)>.<hex(salt)>". The hex
// text of the salt is what is fed to scrypt, which keeps credentials written
// by earlier deployments of the planner verifiable.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	keyLength  = 64
	saltLength = 16

	// scrypt cost parameters
	costN = 16384
	costR = 8
	costP = 1
)

// ErrMalformedCredential is returned when a stored credential cannot be parsed.
var ErrMalformedCredential = errors.New("credential: malformed stored credential")

// Hash derives a credential from password with a fresh random salt.
func Hash(password string) (string, error) {
	raw := make([]byte, saltLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("credential: failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := derive(password, salt)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(key) + "." + salt, nil
}

// Verify reports whether password matches the stored credential. A wrong
// password is not an error; only an unparseable credential is.
func Verify(password, stored string) (bool, error) {
	encodedKey, salt, ok := strings.Cut(stored, ".")
	if !ok || encodedKey == "" || salt == "" {
		return false, ErrMalformedCredential
	}

	expected, err := hex.DecodeString(encodedKey)
	if err != nil || len(expected) != keyLength {
		return false, ErrMalformedCredential
	}

	computed, err := derive(password, salt)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func derive(password, salt string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), costN, costR, costP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("credential: key derivation failed: %w", err)
	}
	return key, nil
}
