package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"os"
)

// messageKey derives the 32-byte AES key used to encrypt message content
// at rest from the MESSAGE_SECRET environment variable.
func messageKey() []byte {
	secret := os.Getenv("MESSAGE_SECRET")
	if secret == "" {
		secret = "your-message-secret" // Default secret (not recommended for production)
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

func messageAEAD() (cipher.AEAD, error) {
	block, err := aes.NewCipher(messageKey())
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptMessage encrypts plaintext message content for storage and
// returns a base64 envelope of nonce||ciphertext.
func EncryptMessage(plaintext string) (string, error) {
	aead, err := messageAEAD()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptMessage reverses EncryptMessage after retrieval from storage.
func DecryptMessage(envelope string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", err
	}

	aead, err := messageAEAD()
	if err != nil {
		return "", err
	}

	if len(sealed) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
