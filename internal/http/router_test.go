package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot/internal/metrics"
)

func testRouter(checks ...Check) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{ServiceName: "giveaway-bot", Origin: "*", Debug: true}, zerolog.Nop(), checks...)
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestBanner(t *testing.T) {
	w := get(testRouter(), "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, Banner, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	w := get(testRouter(), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "giveaway-bot", body["service"])
}

func TestReady(t *testing.T) {
	ok := Check{Name: "store", Check: func(context.Context) error { return nil }}
	w := get(testRouter(ok), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	down := Check{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}
	w = get(testRouter(ok, down), "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "redis unavailable", body["error"])
	assert.Equal(t, "connection refused", body["details"])
}

func TestMetrics(t *testing.T) {
	metrics.GiveawaysStarted.Inc()

	w := get(testRouter(), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "giveaway_started_total")
}

func TestNewServer(t *testing.T) {
	srv := NewServer(4000, testRouter())
	assert.Equal(t, ":4000", srv.Addr)
}
