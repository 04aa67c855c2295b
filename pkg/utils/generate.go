package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// UserIDLength is the length of the opaque user identifier.
const UserIDLength = 8

// GenerateUserID returns an 8-character identifier taken from a random UUID.
func GenerateUserID() string {
	return uuid.New().String()[:UserIDLength]
}

// EncodeUID encodes a user id for use in a password reset link.
func EncodeUID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

// DecodeUID reverses EncodeUID. Padded input is accepted as well.
func DecodeUID(uid string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(uid))
	if err != nil {
		return "", fmt.Errorf("decode uid: %w", err)
	}
	return string(raw), nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
