package secret_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/secret"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestCipher(t *testing.T) *secret.Cipher {
	c, err := secret.New(testKey, true)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	t.Run("Failure - missing key when persistence required", func(t *testing.T) {
		_, err := secret.New("", true)
		assert.Error(t, err)
	})

	t.Run("Success - ephemeral key when persistence not required", func(t *testing.T) {
		c, err := secret.New("", false)
		require.NoError(t, err)

		token, err := c.Seal("secret")
		require.NoError(t, err)
		plaintext, err := c.Open(token)
		require.NoError(t, err)
		assert.Equal(t, "secret", plaintext)
	})

	t.Run("Failure - key is not hex", func(t *testing.T) {
		_, err := secret.New("not-hex-at-all", false)
		assert.Error(t, err)
	})

	t.Run("Failure - key has wrong length", func(t *testing.T) {
		_, err := secret.New("abcdef", false)
		assert.Error(t, err)
	})
}

func TestSealOpen_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{
		"AIzaSyFakeKey1234567890",
		"short",
		"",
		"with spaces and ünïcödé ✓",
		strings.Repeat("x", 4096),
	} {
		token, err := c.Seal(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, token)
		assert.Len(t, strings.Split(token, ":"), 3)

		recovered, err := c.Open(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, recovered)
	}
}

func TestSeal_NonceUniqueness(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Seal("same plaintext")
	require.NoError(t, err)
	second, err := c.Seal("same plaintext")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestOpen_TamperDetection(t *testing.T) {
	c := newTestCipher(t)

	token, err := c.Seal("sensitive value")
	require.NoError(t, err)
	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)

	flipHex := func(s string) string {
		last := s[len(s)-1]
		replacement := byte('a')
		if last == 'a' {
			replacement = 'b'
		}
		return s[:len(s)-1] + string(replacement)
	}

	t.Run("Tampered ciphertext", func(t *testing.T) {
		tampered := parts[0] + ":" + parts[1] + ":" + flipHex(parts[2])
		_, err := c.Open(tampered)
		assert.ErrorIs(t, err, app_errors.ErrCredentialCorrupt)
	})

	t.Run("Tampered tag", func(t *testing.T) {
		tampered := parts[0] + ":" + flipHex(parts[1]) + ":" + parts[2]
		_, err := c.Open(tampered)
		assert.ErrorIs(t, err, app_errors.ErrCredentialCorrupt)
	})

	t.Run("Opened under a different key", func(t *testing.T) {
		other, err := secret.New(strings.Repeat("ef", 32), true)
		require.NoError(t, err)
		_, err = other.Open(token)
		assert.ErrorIs(t, err, app_errors.ErrCredentialCorrupt)
	})
}

func TestOpen_LegacyPassThrough(t *testing.T) {
	c := newTestCipher(t)

	for _, legacy := range []string{
		"not-a-token-shaped-string",
		"only:two-parts",
		"zz:zz:zz", // three parts but not hex
		"a:b:c:d",  // four parts
	} {
		plaintext, err := c.Open(legacy)
		require.NoError(t, err)
		assert.Equal(t, legacy, plaintext)
	}
}

func TestFingerprint(t *testing.T) {
	first := secret.Fingerprint("key123")
	second := secret.Fingerprint("key123")
	other := secret.Fingerprint("key124")

	assert.Len(t, first, 16)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotContains(t, first, "key123")
}
