package cryptoutil

import (
	"encoding/base64"
	"encoding/hex"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var envelopeRe = regexp.MustCompile(`^[0-9a-f]{32}:[0-9a-f]{32}:[0-9a-f]+$`)

func TestEnvelopeCipher_EncryptDecrypt(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	plaintext := []byte("my-secret-password")
	envelope, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	assert.Regexp(t, envelopeRe, envelope)

	decrypted, err := c.Decrypt(envelope)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEnvelopeCipher_FreshNoncePerCall(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	e1, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)
	e2, err := c.Encrypt([]byte("same plaintext"))
	require.NoError(t, err)

	assert.NotEqual(t, e1, e2, "two encryptions of the same plaintext must differ")
	assert.NotEqual(t, strings.Split(e1, ":")[0], strings.Split(e2, ":")[0], "nonces must differ")
}

func TestEnvelopeCipher_EmptyPlaintextRoundTrip(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	envelope, err := c.Encrypt([]byte(""))
	require.NoError(t, err)

	// GCM of an empty plaintext yields no ciphertext bytes; the envelope
	// still carries a verifiable nonce and tag.
	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 32)
	assert.Len(t, parts[1], 32)
	assert.Empty(t, parts[2])

	decrypted, err := c.Decrypt(envelope)
	require.NoError(t, err)
	assert.Empty(t, decrypted)

	t.Run("empty ciphertext still tag-checked", func(t *testing.T) {
		forged := parts[0] + ":" + strings.Repeat("00", 16) + ":"
		_, err := c.Decrypt(forged)
		require.ErrorIs(t, err, ErrDecryptFailed)
	})
}

func TestEnvelopeCipher_TamperDetection(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	envelope, err := c.Encrypt([]byte("tamper target"))
	require.NoError(t, err)
	parts := strings.Split(envelope, ":")
	require.Len(t, parts, 3)

	flipBit := func(hexField string) string {
		raw, err := hex.DecodeString(hexField)
		require.NoError(t, err)
		raw[0] ^= 0x01
		return hex.EncodeToString(raw)
	}

	t.Run("flipped tag bit fails", func(t *testing.T) {
		bad := parts[0] + ":" + flipBit(parts[1]) + ":" + parts[2]
		_, err := c.Decrypt(bad)
		require.ErrorIs(t, err, ErrDecryptFailed)
	})

	t.Run("flipped ciphertext bit fails", func(t *testing.T) {
		bad := parts[0] + ":" + parts[1] + ":" + flipBit(parts[2])
		_, err := c.Decrypt(bad)
		require.ErrorIs(t, err, ErrDecryptFailed)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		other := NewEnvelopeCipher(strings.Repeat("ab", 32))
		_, err := other.Decrypt(envelope)
		require.ErrorIs(t, err, ErrDecryptFailed)
	})
}

func TestEnvelopeCipher_MalformedEnvelope(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	cases := map[string]string{
		"empty":          "",
		"two fields":     "aabb:ccdd",
		"four fields":    "aa:bb:cc:dd",
		"non-hex nonce":  strings.Repeat("zz", 16) + ":" + strings.Repeat("ab", 16) + ":abcd",
		"short nonce":    "abcd:" + strings.Repeat("ab", 16) + ":abcd",
		"short tag":      strings.Repeat("ab", 16) + ":abcd:abcd",
		"odd-length hex": strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 16) + ":abc",
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(payload)
			require.ErrorIs(t, err, ErrMalformedEnvelope)
		})
	}
}

func TestEnvelopeCipher_KeyValidationAtFirstUse(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		c := NewEnvelopeCipher("")
		_, err := c.Encrypt([]byte("x"))
		require.ErrorIs(t, err, ErrKeyNotConfigured)
	})

	t.Run("63 character key", func(t *testing.T) {
		c := NewEnvelopeCipher(strings.Repeat("a", 63))
		_, err := c.Encrypt([]byte("x"))
		require.ErrorIs(t, err, ErrKeyMalformed)
	})

	t.Run("non-hex key", func(t *testing.T) {
		c := NewEnvelopeCipher(strings.Repeat("zz", 32))
		_, err := c.Encrypt([]byte("x"))
		require.ErrorIs(t, err, ErrKeyMalformed)
	})

	t.Run("error is stable across calls", func(t *testing.T) {
		c := NewEnvelopeCipher(strings.Repeat("a", 63))
		_, first := c.Encrypt([]byte("x"))
		_, second := c.Decrypt(strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 16) + ":abcd")
		require.ErrorIs(t, first, ErrKeyMalformed)
		require.ErrorIs(t, second, ErrKeyMalformed)
	})
}

func TestEnvelopeCipher_DecryptCompat(t *testing.T) {
	c := NewEnvelopeCipher(testKeyHex)

	t.Run("well-formed envelope is verified", func(t *testing.T) {
		envelope, err := c.Encrypt([]byte("modern value"))
		require.NoError(t, err)

		pt, err := c.DecryptCompat(envelope)
		require.NoError(t, err)
		assert.Equal(t, []byte("modern value"), pt)
	})

	t.Run("tampered envelope is never masked as legacy", func(t *testing.T) {
		envelope, err := c.Encrypt([]byte("modern value"))
		require.NoError(t, err)
		parts := strings.Split(envelope, ":")
		raw, err := hex.DecodeString(parts[1])
		require.NoError(t, err)
		raw[0] ^= 0x01
		bad := parts[0] + ":" + hex.EncodeToString(raw) + ":" + parts[2]

		_, err = c.DecryptCompat(bad)
		require.ErrorIs(t, err, ErrDecryptFailed)
	})

	t.Run("legacy base64 value", func(t *testing.T) {
		legacy := base64.StdEncoding.EncodeToString([]byte("legacy value"))
		pt, err := c.DecryptCompat(legacy)
		require.NoError(t, err)
		assert.Equal(t, []byte("legacy value"), pt)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := c.DecryptCompat("!!! not base64 !!!")
		require.ErrorIs(t, err, ErrMalformedEnvelope)
	})
}

func TestNoopEncryptor_RoundTrip(t *testing.T) {
	var n NoopEncryptor
	ct, err := n.Encrypt([]byte("plain"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ct, noopPrefix))

	pt, err := n.Decrypt(ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), pt)

	_, err = n.Decrypt("unmarked")
	require.Error(t, err)
}
