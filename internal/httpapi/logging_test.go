package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewareWritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		annotateRequest(r.Context(), session{ProfileID: profileOne, Role: "admin", StationID: stationAlpha})
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp := httptest.NewRecorder()
	LoggingMiddleware(log, next).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusAccepted, resp.Code)
	assert.Equal(t, "req-42", resp.Header().Get("X-Request-ID"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "/api/stations", line["path"])
	assert.Equal(t, float64(http.StatusAccepted), line["status"])
	assert.Equal(t, stationAlpha, line["station_id"])
	assert.Equal(t, profileOne, line["profile_id"])
	assert.Equal(t, "req-42", line["request_id"])
}

func TestLoggingMiddlewareGeneratesRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	resp := httptest.NewRecorder()
	LoggingMiddleware(zerolog.Nop(), next).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Len(t, resp.Header().Get("X-Request-ID"), 36)
}
