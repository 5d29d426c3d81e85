package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRoundTrip(t *testing.T) {
	c, err := NewCrypto("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	sealed, err := c.Encrypt("some session token")
	require.NoError(t, err)
	assert.NotEqual(t, "some session token", sealed)

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "some session token", plain)
}

func TestCryptoRejectsBadKeySize(t *testing.T) {
	_, err := NewCrypto("short")
	assert.Error(t, err)
}

func TestDecryptRejectsTampering(t *testing.T) {
	c, err := NewCrypto("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	sealed, err := c.Encrypt("payload")
	require.NoError(t, err)

	// flip a character inside the base64 payload
	b := []byte(sealed)
	if b[10] == 'A' {
		b[10] = 'B'
	} else {
		b[10] = 'A'
	}

	_, err = c.Decrypt(string(b))
	assert.Error(t, err)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	c, err := NewCrypto("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = c.Decrypt("not base64!!!")
	assert.Error(t, err)

	_, err = c.Decrypt("aGVsbG8=") // valid base64, too short for a nonce
	assert.Error(t, err)
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, ComparePassword(hash, "hunter22"))
	assert.Error(t, ComparePassword(hash, "hunter23"))
}
