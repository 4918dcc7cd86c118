package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serve(t *testing.T, path string, status int) []observer.LoggedEntry {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)

	h := NewLoggingMiddleware(zap.New(core), "/health")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, 1, logs.Len())
	return logs.All()
}

func TestLogging_LevelByStatus(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{path: "/telegram/webhook", status: http.StatusOK, level: zapcore.InfoLevel},
		{path: "/telegram/webhook", status: http.StatusUnauthorized, level: zapcore.WarnLevel},
		{path: "/telegram/webhook", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
		{path: "/health", status: http.StatusOK, level: zapcore.DebugLevel},
		{path: "/health", status: http.StatusServiceUnavailable, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		entries := serve(t, tt.path, tt.status)
		assert.Equal(t, tt.level, entries[0].Level, "%s %d", tt.path, tt.status)
		assert.Equal(t, int64(tt.status), entries[0].ContextMap()["status"])
	}
}
