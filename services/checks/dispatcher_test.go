package checks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services"
)

func newTestDispatcher(timeout time.Duration) *CheckDispatcher {
	logger := zap.NewNop()
	client := NewRemoteClient(NewRandomBalancer(), timeout, logger)
	return NewCheckDispatcher(client, timeout, logger)
}

func textPayload(t *testing.T) models.Payload {
	t.Helper()
	p, err := models.NewTextPayload("some content")
	require.NoError(t, err)
	return p
}

func TestDispatch_LocalResultCoercion(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]any
		expected bool
	}{
		{"bool true", map[string]any{"result": true}, true},
		{"bool false", map[string]any{"result": false}, false},
		{"string true", map[string]any{"result": "true"}, true},
		{"string TRUE", map[string]any{"result": "TRUE"}, true},
		{"string false", map[string]any{"result": "False"}, false},
		{"string garbage", map[string]any{"result": "yes"}, false},
		{"int non-zero", map[string]any{"result": 1}, true},
		{"int zero", map[string]any{"result": 0}, false},
		{"int64 non-zero", map[string]any{"result": int64(7)}, true},
		{"float non-zero", map[string]any{"result": 0.5}, true},
		{"float zero", map[string]any{"result": 0.0}, false},
		{"missing key", map[string]any{"other": true}, false},
		{"nil config", nil, false},
		{"unsupported type", map[string]any{"result": []string{"true"}}, false},
	}

	d := newTestDispatcher(0)
	payload := textPayload(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := models.NewCheck("local:dummy:test", nil, []models.PayloadKind{models.PayloadKindText}, tt.config)
			result, err := d.Dispatch(context.Background(), check, payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDispatch_LocalIgnoresPayloadContent(t *testing.T) {
	d := newTestDispatcher(0)
	check := models.NewCheck("local:dummy:static", nil,
		[]models.PayloadKind{models.PayloadKindText, models.PayloadKindImage},
		map[string]any{"result": true})

	text := textPayload(t)
	image, err := models.NewImagePayload("aW1hZ2U=")
	require.NoError(t, err)

	r1, err := d.Dispatch(context.Background(), check, text)
	require.NoError(t, err)
	r2, err := d.Dispatch(context.Background(), check, image)
	require.NoError(t, err)

	assert.True(t, r1)
	assert.True(t, r2)
}

func TestDispatch_UnsupportedPayloadKind(t *testing.T) {
	d := newTestDispatcher(0)
	check := models.NewCheck("local:dummy:text-only", nil,
		[]models.PayloadKind{models.PayloadKindText}, map[string]any{"result": true})

	image, err := models.NewImagePayload("aW1hZ2U=")
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), check, image)
	require.Error(t, err)
	assert.True(t, services.IsUnsupportedPayloadError(err))
}

func TestDispatch_RemoteSuccess(t *testing.T) {
	var gotBody checkRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/check", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"result": true}`))
	}))
	defer server.Close()

	d := newTestDispatcher(5 * time.Second)
	check := models.NewCheck("toxicity", []string{server.URL},
		[]models.PayloadKind{models.PayloadKindText}, nil)

	result, err := d.Dispatch(context.Background(), check, textPayload(t))
	require.NoError(t, err)

	assert.True(t, result)
	assert.Equal(t, "some content", gotBody.Text)
	assert.Empty(t, gotBody.Image)
}

func TestDispatch_RemoteImagePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, req.Text)
		assert.Equal(t, "aW1hZ2U=", req.Image)
		_, _ = w.Write([]byte(`{"result": false}`))
	}))
	defer server.Close()

	d := newTestDispatcher(5 * time.Second)
	check := models.NewCheck("nsfw-image", []string{server.URL},
		[]models.PayloadKind{models.PayloadKindImage}, nil)

	image, err := models.NewImagePayload("aW1hZ2U=")
	require.NoError(t, err)

	result, err := d.Dispatch(context.Background(), check, image)
	require.NoError(t, err)
	assert.False(t, result)
}

func TestDispatch_BackendUnreachable(t *testing.T) {
	d := newTestDispatcher(2 * time.Second)
	// Port 1 is never listening.
	check := models.NewCheck("toxicity", []string{"127.0.0.1:1"},
		[]models.PayloadKind{models.PayloadKindText}, nil)

	_, err := d.Dispatch(context.Background(), check, textPayload(t))
	require.Error(t, err)
	assert.True(t, services.IsBackendUnreachableError(err))
}

func TestDispatch_NoUpstreamServices(t *testing.T) {
	d := newTestDispatcher(0)
	check := models.NewCheck("toxicity", nil,
		[]models.PayloadKind{models.PayloadKindText}, nil)

	_, err := d.Dispatch(context.Background(), check, textPayload(t))
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
}

func TestDispatch_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"non-200 status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"malformed json",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
		},
		{
			"missing result field",
			func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"details": "nothing"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			d := newTestDispatcher(5 * time.Second)
			check := models.NewCheck("toxicity", []string{server.URL},
				[]models.PayloadKind{models.PayloadKindText}, nil)

			_, err := d.Dispatch(context.Background(), check, textPayload(t))
			require.Error(t, err)
			assert.True(t, services.IsProtocolError(err))
		})
	}
}

func TestDispatch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"result": true}`))
	}))
	defer server.Close()

	d := newTestDispatcher(50 * time.Millisecond)
	check := models.NewCheck("slow-backend", []string{server.URL},
		[]models.PayloadKind{models.PayloadKindText}, nil)

	_, err := d.Dispatch(context.Background(), check, textPayload(t))
	require.Error(t, err)
	assert.True(t, services.IsTimeoutError(err))
}

func TestDispatch_UnresolvedKindFallsBackToName(t *testing.T) {
	d := newTestDispatcher(0)
	check := &models.Check{
		Name:           "local:dummy:scanned",
		SupportedKinds: []models.PayloadKind{models.PayloadKindText},
		Config:         map[string]any{"result": true},
	}

	result, err := d.Dispatch(context.Background(), check, textPayload(t))
	require.NoError(t, err)
	assert.True(t, result)
}

func TestCheckURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11432/v1/check", checkURL("localhost:11432"))
	assert.Equal(t, "http://localhost:11432/v1/check", checkURL("http://localhost:11432/"))
	assert.Equal(t, "https://checks.internal/v1/check", checkURL("https://checks.internal"))
}

func TestDispatch_RemoteWithCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": true}`))
	}))
	defer server.Close()

	d := newTestDispatcher(5 * time.Second)
	check := models.NewCheck("toxicity", []string{server.URL},
		[]models.PayloadKind{models.PayloadKindText}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Dispatch(ctx, check, textPayload(t))
	require.Error(t, err)
}

func TestCheckRequest_ExactlyOneFieldSerialized(t *testing.T) {
	body, err := json.Marshal(checkRequest{Text: "hello"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text": "hello"}`, string(body))
	assert.False(t, strings.Contains(string(body), "image"))
}
