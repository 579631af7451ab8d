package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Bank"}`))
		rec := httptest.NewRecorder()
		var p payload
		require.True(t, DecodeJSON(rec, req, &p))
		assert.Equal(t, "Bank", p.Name)
	})

	t.Run("unknown field is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nmae":"Bank"}`))
		rec := httptest.NewRecorder()
		var p payload
		require.False(t, DecodeJSON(rec, req, &p))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid_json")
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		rec := httptest.NewRecorder()
		var p payload
		require.False(t, DecodeJSON(rec, req, &p))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "p1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"p1"}`, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrorParams{
		Code:    http.StatusConflict,
		ErrCode: "portal_name_exists",
		Err:     errors.New("a portal with this name already exists"),
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t,
		`{"error":"portal_name_exists","message":"a portal with this name already exists"}`,
		rec.Body.String())
}
