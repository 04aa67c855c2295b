package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUserID(t *testing.T) {
	a := GenerateUserID()
	b := GenerateUserID()

	assert.Len(t, a, UserIDLength)
	assert.NotEqual(t, a, b)
}

func TestEncodeDecodeUID(t *testing.T) {
	uid := EncodeUID("1a2b3c4d")
	assert.NotContains(t, uid, "=")

	id, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "1a2b3c4d", id)

	id, err = DecodeUID(uid + "==")
	require.NoError(t, err)
	assert.Equal(t, "1a2b3c4d", id)
}

func TestDecodeUID_Invalid(t *testing.T) {
	_, err := DecodeUID("!!not-base64!!")
	assert.Error(t, err)
}
