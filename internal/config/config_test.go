package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"rus", "eng"}, cfg.OCR.Languages)
	assert.Equal(t, OCREngineTesseract, cfg.OCR.Engine)
	assert.Equal(t, PDFEngineFitz, cfg.PDF.Engine)
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.ClearAfterExport)
	assert.Equal(t, 60*time.Second, cfg.Limits.ExtractTimeout)
	assert.Equal(t, int64(20<<20), cfg.Limits.MaxFileSize)
	assert.Equal(t, "Letter", cfg.Export.PageSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("OCR_LANGUAGES", "ukr+eng")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_CLEAR_AFTER_EXPORT", "true")
	t.Setenv("PDF_ENGINE", "native")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ukr", "eng"}, cfg.OCR.Languages)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.True(t, cfg.Session.ClearAfterExport)
	assert.Equal(t, PDFEngineNative, cfg.PDF.Engine)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"TELEGRAM_TOKEN": ""}},
		{name: "unknown ocr engine", env: map[string]string{"OCR_ENGINE": "abbyy"}},
		{name: "unknown pdf engine", env: map[string]string{"PDF_ENGINE": "poppler"}},
		{name: "unknown session backend", env: map[string]string{"SESSION_BACKEND": "memcached"}},
		{name: "zero ttl", env: map[string]string{"SESSION_TTL": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TELEGRAM_TOKEN", "123:abc")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
