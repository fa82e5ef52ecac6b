// Package hmac signs and verifies request urls
package hmac

import (
	cryptoHMAC "crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// ErrNoKey is returned when signing without a key
var ErrNoKey = errors.New("no hmac key configured")

// HMAC is a utility for creating and verifying HMACs.
// Keys are tried in order when validating, new HMACs are always created with the first key,
// which lets keys be rotated without rejecting urls signed with the previous one.
type HMAC struct {
	Keys [][]byte
}

// New returns a HMAC using the given keys
func New(keys ...[]byte) *HMAC {
	return &HMAC{Keys: keys}
}

// Create creates a HMAC of the message with the current key, encoded as urlsafe base64
func (h *HMAC) Create(message string) (string, error) {
	if len(h.Keys) == 0 {
		return "", ErrNoKey
	}

	return sign(h.Keys[0], message)
}

// Validate validates that the message matches a given HMAC under any of the keys
func (h *HMAC) Validate(message, mac string) (bool, error) {
	if len(h.Keys) == 0 {
		return false, ErrNoKey
	}

	for _, key := range h.Keys {
		expectedMAC, err := sign(key, message)
		if err != nil {
			return false, err
		}

		if cryptoHMAC.Equal([]byte(mac), []byte(expectedMAC)) {
			return true, nil
		}
	}

	return false, nil
}

func sign(key []byte, message string) (string, error) {
	mac := cryptoHMAC.New(sha256.New, key)
	if _, err := mac.Write([]byte(message)); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
