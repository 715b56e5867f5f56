package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/pdm/pkg/logger"
	"github.com/shashiranjanraj/pdm/pkg/middleware"
	"github.com/stretchr/testify/assert"
)

// captureLog swaps the base logger for one writing to a buffer.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	orig := logger.L
	logger.L = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { logger.L = orig })
	return &buf
}

func TestLoggerLevelsFollowStatus(t *testing.T) {
	buf := captureLog(t)

	serve := func(status int) {
		h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/NOPE", nil))
	}

	serve(http.StatusNotFound)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=404")

	buf.Reset()
	serve(http.StatusInternalServerError)
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	serve(http.StatusOK)
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestLoggerRecordsPathAndSize(t *testing.T) {
	buf := captureLog(t)

	h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	out := buf.String()
	assert.Contains(t, out, "path=/api/products")
	assert.Contains(t, out, "bytes=2")
	assert.Contains(t, out, "method=GET")
}
