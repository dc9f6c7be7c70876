package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-perfecto/internal/extraction"
	"github.com/jonathan/cv-perfecto/internal/llm"
	"github.com/jonathan/cv-perfecto/internal/schemas"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "LLM_PROVIDER", "LLM_MODELS", "PERPLEXITY_API_KEY",
		"PERPLEXITY_BASE_URL", "GEMINI_API_KEY", "OUTPUT_MAX_AGE_HOURS", "ARTIFACT_STORE",
		"MINIO_ENDPOINT", "MINIO_USE_SSL", "LOG_LEVEL", "LOG_FORMAT",
		"EXTRACTION_CONFIDENCE_THRESHOLD", "GARBLE_MIN_PRINTABLE_RATIO",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, llm.ProviderPerplexity, cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultPerplexityBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, llm.DefaultPerplexityModels, cfg.LLM.Models)
	assert.Equal(t, 24*time.Hour, cfg.OutputMaxAge)
	assert.Equal(t, StoreLocal, cfg.ArtifactStore)
	assert.Equal(t, extraction.ConfidenceThreshold, cfg.ConfidenceThreshold)
	assert.Equal(t, extraction.DefaultGarbleThresholds(), cfg.Garble)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Gemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_MODELS", "gemini-2.5-flash, gemini-2.5-pro")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, cfg.LLM.Models)
	assert.Empty(t, cfg.LLM.BaseURL)
}

func TestFromEnv_InvalidNumbers(t *testing.T) {
	tests := map[string]string{
		"PORT":                       "eighty",
		"OUTPUT_MAX_AGE_HOURS":       "1d",
		"GARBLE_MIN_PRINTABLE_RATIO": "high",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := FromEnv()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*AppConfig)
		errMsg string
	}{
		{"port", func(c *AppConfig) { c.Port = 0 }, "port out of range"},
		{"max age", func(c *AppConfig) { c.OutputMaxAge = 0 }, "max age"},
		{"ratio", func(c *AppConfig) { c.Garble.MinPrintableRatio = 1.5 }, "printable ratio"},
		{"models", func(c *AppConfig) { c.LLM.Models = nil }, "LLM model"},
		{"minio endpoint", func(c *AppConfig) { c.ArtifactStore = StoreMinIO }, "MINIO_ENDPOINT"},
		{"store", func(c *AppConfig) { c.ArtifactStore = "s3" }, "unknown artifact store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile("")
	assert.ErrorContains(t, err, "config path is empty")

	_, err = LoadFile("/nonexistent/path/config.json")
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadFile(writeConfig(t, `{"llm": {"provider": "openai"}}`))
	var verr *schemas.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestMergeWithDefaults(t *testing.T) {
	clearEnv(t)
	defaults, err := FromEnv()
	require.NoError(t, err)

	fc, err := LoadFile(writeConfig(t, `{
		"port": 8081,
		"output_max_age_hours": 6,
		"llm": {"provider": "gemini", "models": ["gemini-2.5-flash"]},
		"minio": {"use_ssl": true},
		"log": {"format": "pretty"},
		"extraction": {"confidence_threshold": 0, "min_printable_ratio": 0.5}
	}`))
	require.NoError(t, err)

	merged, err := fc.MergeWithDefaults(defaults)
	require.NoError(t, err)

	assert.Equal(t, 8081, merged.Port)
	assert.Equal(t, 6*time.Hour, merged.OutputMaxAge)
	assert.Equal(t, llm.ProviderGemini, merged.LLM.Provider)
	assert.Equal(t, []string{"gemini-2.5-flash"}, merged.LLM.Models)
	assert.True(t, merged.MinIO.UseSSL)
	assert.Equal(t, "pretty", merged.Log.Format)
	assert.Equal(t, "info", merged.Log.Level)
	assert.Equal(t, 0, merged.ConfidenceThreshold)
	assert.Equal(t, 0.5, merged.Garble.MinPrintableRatio)
	assert.Equal(t, extraction.MaxBinaryPatterns, merged.Garble.MaxBinaryPatterns)

	assert.Equal(t, 5000, defaults.Port, "defaults must not be mutated")
	assert.Equal(t, llm.DefaultPerplexityModels, defaults.LLM.Models)
}

func TestLoad_EnvAndFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, `{"log": {"level": "debug"}}`))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "debug", cfg.Log.Level)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
