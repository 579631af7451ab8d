package bootstrap

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
)

// CreateCipher builds the envelope cipher from the configured key. A malformed
// key fails startup; an empty key is tolerated with a warning, and every seal
// or unseal attempt then returns a typed error. There is no silent plaintext
// fallback.
func CreateCipher(keyHex string, logger *slog.Logger) (*cryptoutil.EnvelopeCipher, error) {
	if keyHex == "" {
		if logger != nil {
			logger.Warn("encryption key is empty; sealing operations will fail until ENCRYPTION_KEY is set")
		}
		return cryptoutil.NewEnvelopeCipher(""), nil
	}

	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("encryption key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes (64 hex characters), got %d bytes", len(raw))
	}

	return cryptoutil.NewEnvelopeCipher(keyHex), nil
}
