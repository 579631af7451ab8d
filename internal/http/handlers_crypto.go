package httpx

import (
	"errors"
	"net/http"

	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
)

// CryptoHandlers provides the HTTP surface for the sealing service. It works
// on the full cipher rather than the Encryptor interface because decryption
// must also accept pre-envelope legacy payloads.
type CryptoHandlers struct {
	Cipher *cryptoutil.EnvelopeCipher
}

// cryptoRequest is the body of POST /api/crypto. Encrypt takes plaintext in
// "text"; decrypt takes a sealed envelope (or legacy base64) in "payload".
type cryptoRequest struct {
	Action  string `json:"action"`
	Text    string `json:"text,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// Transform handles the encrypt/decrypt endpoint.
// POST /api/crypto.
func (h *CryptoHandlers) Transform(w http.ResponseWriter, r *http.Request) {
	var req cryptoRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "encrypt":
		if req.Text == "" {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation_failed",
				Err:     errors.New("text is required and cannot be empty"),
			})
			return
		}
		sealed, err := h.Cipher.Encrypt([]byte(req.Text))
		if err != nil {
			RenderError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"result": sealed})
	case "decrypt":
		if req.Payload == "" {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation_failed",
				Err:     errors.New("payload is required and cannot be empty"),
			})
			return
		}
		plain, err := h.Cipher.DecryptCompat(req.Payload)
		if err != nil {
			RenderError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"result": string(plain)})
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("action must be one of: encrypt, decrypt"),
		})
	}
}
