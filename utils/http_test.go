package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := WriteJSON(rec, 200, map[string]string{"hello": "world"})
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, 204, nil))
	assert.Equal(t, 204, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteOK(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteOK(rec, map[string]bool{"verdict": true}))

	assert.Equal(t, 200, rec.Code)
	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Data)
}

func TestWriteBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteBadRequest(rec, "payload must have exactly one of text or image", map[string]interface{}{"field": "text"}))

	assert.Equal(t, 400, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "payload must have exactly one of text or image", resp.Message)
	assert.Equal(t, "text", resp.Details["field"])
}

func TestWriteUnauthorized_DefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteUnauthorized(rec, ""))

	assert.Equal(t, 401, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "unauthorized", resp.Error)
	assert.Equal(t, "Authentication required", resp.Message)
}

func TestWriteNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteNotFound(rec, "profile not found"))

	assert.Equal(t, 404, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "not_found", resp.Error)
}

func TestWriteBadGateway(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteBadGateway(rec, "", map[string]interface{}{"check": "toxicity"}))

	assert.Equal(t, 502, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "bad_gateway", resp.Error)
	assert.Equal(t, "Upstream service error", resp.Message)
	assert.Equal(t, "toxicity", resp.Details["check"])
}

func TestWriteGatewayTimeout(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteGatewayTimeout(rec, "", nil))

	assert.Equal(t, 504, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "gateway_timeout", resp.Error)
}

func TestWriteNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, 204, rec.Code)
}
