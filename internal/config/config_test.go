package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/plant-api/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "*", cfg.AllowOrigins)
	assert.Equal(t, "10M", cfg.MaxUploadSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "app.log", cfg.LogFile)
	assert.Equal(t, "models/model.onnx", cfg.Model.Path)
	assert.Equal(t, "models/model_metadata.json", cfg.Model.MetadataPath)
	assert.Equal(t, 40000000, cfg.Model.MaxImagePixels)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MODEL_PATH", "/srv/trained_30.onnx")
	t.Setenv("MODEL_RUNTIME_LIBRARY", "/usr/lib/libonnxruntime.so")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://a.example,https://b.example", cfg.AllowOrigins)
	assert.Equal(t, "/srv/trained_30.onnx", cfg.Model.Path)
	assert.Equal(t, "/usr/lib/libonnxruntime.so", cfg.Model.RuntimeLibrary)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	tests := []struct {
		name string
		port string
	}{
		{"not a number", "http"},
		{"zero", "0"},
		{"too large", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)

			_, err := config.LoadConfig()
			assert.Error(t, err)
		})
	}
}
