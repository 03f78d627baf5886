package zaptec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullEncryptor_roundTrip(t *testing.T) {
	encryptor := NullEncryptor{}
	payload := []byte(`{"access_token": "T123", "expires_at": 1670245810}`)

	ciphertext, err := encryptor.Encrypt(payload)
	assert.NoError(t, err)
	assert.Equal(t, payload, ciphertext)

	plaintext, err := encryptor.Decrypt(ciphertext)
	assert.NoError(t, err)
	assert.Equal(t, payload, plaintext)
}

func TestAESEncryptor_roundTrip(t *testing.T) {
	encryptor := NewAESEncryptor("correct horse battery staple")
	payload := []byte(`{"access_token": "T123", "expires_at": 1670245810}`)

	ciphertext, err := encryptor.Encrypt(payload)
	assert.NoError(t, err)
	assert.NotEqual(t, payload, ciphertext)

	plaintext, err := encryptor.Decrypt(ciphertext)
	assert.NoError(t, err)
	assert.Equal(t, payload, plaintext)
}

func TestAESEncryptor_wrongKey(t *testing.T) {
	ciphertext, err := NewAESEncryptor("key one").Encrypt([]byte("secret"))
	assert.NoError(t, err)

	_, err = NewAESEncryptor("key two").Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestAESEncryptor_garbageCiphertext(t *testing.T) {
	encryptor := NewAESEncryptor("key")

	_, err := encryptor.Decrypt([]byte("@@@not base64@@@"))
	assert.Error(t, err)

	_, err = encryptor.Decrypt([]byte("c2hvcnQ="))
	assert.Error(t, err)
}
