package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Encryptor defines an interface for sealing/unsealing secrets.
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(envelope string) ([]byte, error)
}

const (
	// KeyHexLen is the required length of the configured key: 32 bytes, hex-encoded.
	KeyHexLen = 64
	// NonceSize is the per-call random nonce length in bytes.
	NonceSize = 16
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// Typed failures. Callers branch with errors.Is; none of these ever carry
// plaintext or key material in their message.
var (
	// ErrKeyNotConfigured is returned when no key was supplied.
	ErrKeyNotConfigured = errors.New("encryption key is not configured")
	// ErrKeyMalformed is returned when the supplied key is not 64 hex characters.
	ErrKeyMalformed = errors.New("encryption key must be exactly 64 hex characters")
	// ErrMalformedEnvelope is returned when the payload does not parse as nonce:tag:ciphertext hex.
	ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")
	// ErrDecryptFailed is returned when tag verification fails (tamper or wrong key).
	ErrDecryptFailed = errors.New("decryption failed")
)

// EnvelopeCipher implements Encryptor using AES-256-GCM with a 16-byte
// random nonce per call and the envelope format
//
//	hex(nonce):hex(tag):hex(ciphertext)
//
// The key is supplied as a 64-hex-character string and validated lazily:
// the first cryptographic operation fails with a typed configuration error
// if the key is absent, non-hex, or the wrong length. After the first use
// the decoded key is cached and read-only, safe for concurrent use.
type EnvelopeCipher struct {
	keyHex string

	once   sync.Once
	key    []byte
	keyErr error
}

// NewEnvelopeCipher constructs an EnvelopeCipher from the configured hex key.
// The key is not validated here; validation is deferred to first use so that
// components which never touch crypto can start without the secret present.
func NewEnvelopeCipher(keyHex string) *EnvelopeCipher {
	return &EnvelopeCipher{keyHex: keyHex}
}

// material validates and decodes the key exactly once.
func (c *EnvelopeCipher) material() ([]byte, error) {
	c.once.Do(func() {
		trimmed := strings.TrimSpace(c.keyHex)
		if trimmed == "" {
			c.keyErr = ErrKeyNotConfigured
			return
		}
		if len(trimmed) != KeyHexLen {
			c.keyErr = fmt.Errorf("%w (got %d characters)", ErrKeyMalformed, len(trimmed))
			return
		}
		key, err := hex.DecodeString(trimmed)
		if err != nil {
			c.keyErr = fmt.Errorf("%w: not valid hex", ErrKeyMalformed)
			return
		}
		c.key = key
	})
	return c.key, c.keyErr
}

func (c *EnvelopeCipher) aead() (cipher.AEAD, error) {
	key, err := c.material()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, NonceSize)
}

// Encrypt seals plaintext with a fresh random nonce and returns the hex envelope.
// Nonce reuse with the same key breaks GCM confidentiality, so the nonce is
// drawn from crypto/rand on every call.
func (c *EnvelopeCipher) Encrypt(plaintext []byte) (string, error) {
	gcm, err := c.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, NonceSize)
	if _, readErr := io.ReadFull(rand.Reader, nonce); readErr != nil {
		return "", fmt.Errorf("generate nonce: %w", readErr)
	}
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	// gcm.Seal appends the tag after the ciphertext; split for the envelope.
	ct, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ct), nil
}

// Decrypt parses the hex envelope, verifies the tag as part of GCM open, and
// returns the plaintext. Any structural problem yields ErrMalformedEnvelope;
// a well-formed envelope that fails verification yields ErrDecryptFailed.
// Corrupted plaintext is never returned.
func (c *EnvelopeCipher) Decrypt(envelope string) ([]byte, error) {
	nonce, tag, ct, err := parseEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	gcm, err := c.aead()
	if err != nil {
		return nil, err
	}
	pt, err := gcm.Open(nil, nonce, append(ct, tag...), nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return pt, nil
}

// IsEnvelope reports whether payload structurally matches nonce:tag:ciphertext
// hex with the fixed nonce and tag sizes. It says nothing about whether the
// payload will verify.
func IsEnvelope(payload string) bool {
	_, _, _, err := parseEnvelope(payload)
	return err == nil
}

func parseEnvelope(envelope string) (nonce, tag, ct []byte, err error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return nil, nil, nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedEnvelope, len(parts))
	}
	nonce, err = hex.DecodeString(parts[0])
	if err != nil || len(nonce) != NonceSize {
		return nil, nil, nil, fmt.Errorf("%w: bad nonce field", ErrMalformedEnvelope)
	}
	tag, err = hex.DecodeString(parts[1])
	if err != nil || len(tag) != TagSize {
		return nil, nil, nil, fmt.Errorf("%w: bad tag field", ErrMalformedEnvelope)
	}
	// An empty ciphertext field is legal: GCM of an empty plaintext produces
	// no ciphertext bytes, only the tag.
	ct, err = hex.DecodeString(parts[2])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad ciphertext field", ErrMalformedEnvelope)
	}
	return nonce, tag, ct, nil
}

// DecryptCompat decrypts payloads written before envelope encryption was
// rolled out. Inputs that structurally cannot be an envelope are interpreted
// as legacy base64 plaintext; anything shaped like an envelope goes through
// full verification, so a tampered envelope is never masked as a legacy value.
func (c *EnvelopeCipher) DecryptCompat(payload string) ([]byte, error) {
	if IsEnvelope(payload) {
		return c.Decrypt(payload)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: not an envelope and not legacy base64", ErrMalformedEnvelope)
	}
	return decoded, nil
}

// NoopEncryptor is useful for repository tests; it stores plaintext with a
// prefix marker. Never wired in bootstrap: a missing production key is a
// hard failure, not a downgrade.
type NoopEncryptor struct{}

const noopPrefix = "noop:"

func (NoopEncryptor) Encrypt(plaintext []byte) (string, error) {
	return noopPrefix + base64.StdEncoding.EncodeToString(plaintext), nil
}

func (NoopEncryptor) Decrypt(envelope string) ([]byte, error) {
	if !strings.HasPrefix(envelope, noopPrefix) {
		return nil, errors.New("invalid noop ciphertext")
	}
	return base64.StdEncoding.DecodeString(envelope[len(noopPrefix):])
}
