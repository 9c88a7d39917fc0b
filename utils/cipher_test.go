package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := "Bonjour, est-ce toujours disponible ?"

	envelope, err := EncryptMessage(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, envelope)

	decrypted, err := DecryptMessage(envelope)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncryptProducesUniqueEnvelopes(t *testing.T) {
	first, err := EncryptMessage("same content")
	require.NoError(t, err)
	second, err := EncryptMessage("same content")
	require.NoError(t, err)

	// Random nonces mean identical plaintexts never share an envelope
	assert.NotEqual(t, first, second)
}

func TestDecryptRejectsTamperedEnvelope(t *testing.T) {
	envelope, err := EncryptMessage("original")
	require.NoError(t, err)

	tampered := []byte(envelope)
	tampered[len(tampered)-5] ^= 1

	_, err = DecryptMessage(string(tampered))
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := DecryptMessage("not base64 at all!!!")
	assert.Error(t, err)

	_, err = DecryptMessage("c2hvcnQ=")
	assert.Error(t, err)
}
