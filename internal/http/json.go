package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies; every API payload is a small JSON object.
const maxBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped settings. When
// decoding fails the error response has already been written and the handler
// should return immediately.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	return true
}

// WriteJSON encodes v into a buffer before touching the ResponseWriter, so an
// encoding failure can still become a clean 500 instead of a half-written body
// after the status line has gone out.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// Nothing useful to do if the client went away mid-write.
	_, _ = buf.WriteTo(w)
}

// ErrorParams describes an error response: the HTTP status, the stable machine
// code clients branch on, and the human-readable cause.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError renders the API's uniform error envelope.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}
